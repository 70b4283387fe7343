package ffl

import (
	"ffl-directory/feature/ffl/audit"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SyncConfig holds configuration for batch uploads.
type SyncConfig struct {
	// MaxUploadBytes caps the size of an uploaded file.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" default:"10485760"`
	// AuditToStorage also writes every sync event to object storage.
	AuditToStorage bool `mapstructure:"audit_to_storage" default:"false"`
	// AuditPrefix is the object prefix for stored sync events.
	AuditPrefix string `mapstructure:"audit_prefix" default:"audit/ffl-sync"`
}

// Validate validates the sync configuration.
func (c SyncConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.AuditPrefix, validation.When(c.AuditToStorage, validation.Required)),
	)
}

// prefix returns the audit prefix, falling back to the default.
func (c SyncConfig) prefix() string {
	if c.AuditPrefix == "" {
		return audit.DefaultPrefix
	}
	return c.AuditPrefix
}
