package directory

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds configuration for the external directory API.
type Config struct {
	// Enabled turns on the search fallback to the external directory.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// BaseURL is the API root, e.g. https://directory.example.com.
	BaseURL string `mapstructure:"base_url" default:""`
	// APIKey is sent as a bearer token when set.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds each upstream call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Validate validates the directory configuration. BaseURL is only required when enabled.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.When(c.Enabled, validation.Required), is.URL),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}
