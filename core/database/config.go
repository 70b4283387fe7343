package database

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds configuration for the database connection.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite it is the file path or DSN.
	Name string `mapstructure:"name" default:"ffl_directory"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate checks the driver and database name.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMySQL, DriverSQLite)),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Port, validation.When(c.Driver == DriverMySQL, validation.Required, validation.Max(65535))),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}
