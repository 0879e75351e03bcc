package storage

import "fmt"

// StorageError wraps an I/O or database failure in a backend operation.
type StorageError struct {
	Op   string // operation that failed, e.g. "save posts"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s (%s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when a stored record cannot be decoded, typically
// because a required field is missing or malformed.
type SchemaError struct {
	Collection string // "posts" or "comments"
	Field      string
	Err        error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s field %q: %v", e.Collection, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned by the factory for an unknown backend kind
// or a missing required option.
type ConfigurationError struct {
	Kind    string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error for backend %q: %s", e.Kind, e.Message)
}

// ValidationError is returned when a record is missing a required field
// before save.
type ValidationError struct {
	Collection string
	ID         string
	Field      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s record %q: missing field %s", e.Collection, e.ID, e.Field)
}
