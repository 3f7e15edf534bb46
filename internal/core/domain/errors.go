package domain

import "fmt"

// ConfigFormatError means the input was not a JSON object at all.
type ConfigFormatError struct {
	Reason string
}

func (e *ConfigFormatError) Error() string {
	return fmt.Sprintf("config format error: %s", e.Reason)
}

// UnsupportedSchemaError is fatal, no migration is attempted.
type UnsupportedSchemaError struct {
	Version int
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema_version: %d (supported: %d)", e.Version, SchemaVersion)
}

// ValidationError points at the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
