package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the gate.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds how long a request body may take to arrive.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"60"`
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return ":" + c.Port
}

// Validate validates the server configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Match(portPattern)),
		validation.Field(&c.ReadTimeoutSeconds, validation.Min(0)),
	)
}
