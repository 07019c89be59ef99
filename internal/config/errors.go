package config

import (
	"errors"
	"fmt"
)

// Error codes for config loading.
const (
	// ErrCodeNotFound indicates the config file does not exist.
	ErrCodeNotFound = "CONFIG_NOT_FOUND"

	// ErrCodeParse indicates the file is not valid YAML for the config
	// shape (including unknown fields).
	ErrCodeParse = "CONFIG_PARSE"

	// ErrCodeInvalid indicates the file parsed but violates the schema:
	// out-of-range values, empty names, duplicate timers.
	ErrCodeInvalid = "CONFIG_INVALID"
)

// LoadError describes a failure to load or validate a config file.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalid reports whether the error is a schema validation failure.
// Uses errors.As to handle wrapped errors.
func IsInvalid(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalid
	}
	return false
}

// IsNotFound reports whether the error is a missing config file.
func IsNotFound(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeNotFound
	}
	return false
}
