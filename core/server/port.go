package server

import "regexp"

var portPattern = regexp.MustCompile(`^[0-9]{1,5}$`)
