package config

import "fmt"

// ConfigurationError reports an invalid host, port, transport or a missing
// server entry. It is fatal for the run and never retried.
type ConfigurationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Field == "" {
		return fmt.Sprintf("configuration error: %s", ce.Message)
	}
	return fmt.Sprintf("configuration error: field '%s' (%v): %s", ce.Field, ce.Value, ce.Message)
}

func newConfigurationError(field string, value interface{}, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}
