package main

import "ffl-directory/cmd"

func main() {
	cmd.Execute()
}
