package search

import (
	"errors"
	"fmt"
	"strings"

	"ffl-directory/feature/ffl/normalize"
	"ffl-directory/feature/ffl/store"
)

// ErrInvalidQuery reports search options that cannot be served.
var ErrInvalidQuery = errors.New("invalid query")

// Type selects which fields a query is matched against.
type Type string

const (
	TypeFfl  Type = "ffl"
	TypeName Type = "name"
	TypeBoth Type = "both"
)

// ParseType parses a search type case-insensitively. Empty means TypeBoth.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypeBoth, nil
	case TypeFfl, TypeName, TypeBoth:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown search type %q", ErrInvalidQuery, s)
	}
}

// fields lists the columns partially matched for the type.
func (t Type) fields() []store.Field {
	switch t {
	case TypeFfl:
		return []store.Field{store.FieldLicense}
	case TypeName:
		return []store.Field{store.FieldBusiness, store.FieldTrade, store.FieldStreet, store.FieldCity, store.FieldZip}
	default:
		return store.AllFields
	}
}

// Options are the caller-facing knobs of a search.
type Options struct {
	Type  Type
	Limit int
	State string
}

// Request is a validated query handed to a Source.
type Request struct {
	Query string
	Type  Type
	Limit int
	State string
}

// resolve applies defaults and bounds, rejecting what cannot be served.
func (o Options) resolve(cfg Config) (Options, error) {
	t, err := ParseType(string(o.Type))
	if err != nil {
		return o, err
	}
	o.Type = t

	switch {
	case o.Limit < 0:
		return o, fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	case o.Limit == 0:
		o.Limit = cfg.DefaultLimit
	case o.Limit > cfg.MaxLimit:
		o.Limit = cfg.MaxLimit
	}

	if strings.TrimSpace(o.State) != "" {
		code, ok := normalize.State(o.State)
		if !ok {
			return o, fmt.Errorf("%w: unknown state %q", ErrInvalidQuery, o.State)
		}
		o.State = code
	} else {
		o.State = ""
	}
	return o, nil
}
