// Package registry catalogs the content modules available for injection into generated documents.
package registry

import "fmt"

// ConfigurationError represents an unreadable or malformed module manifest.
// It is fatal to the registry load; callers must not proceed with document
// generation when they receive one.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
