package search

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Config holds result bounds for directory search.
type Config struct {
	// DefaultLimit applies when a query does not set a limit.
	DefaultLimit int `mapstructure:"default_limit" default:"20"`
	// MaxLimit caps every query.
	MaxLimit int `mapstructure:"max_limit" default:"200"`
}

// Validate validates the search configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultLimit, validation.Required, validation.Min(1), validation.Max(c.MaxLimit)),
	)
}
