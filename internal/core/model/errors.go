package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("invalid timer configuration")
	// ErrValidation matches every ValidationError via errors.Is.
	ErrValidation = errors.New("invalid timer settings")
)

// ConfigurationError reports timer inputs that cannot produce a valid countdown.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %d %s", ErrConfiguration, err.Field, err.Value, err.Reason)
}

// Is matches ErrConfiguration.
func (err *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ValidationError reports edited settings that were rejected without changing the timer.
type ValidationError struct {
	Duration int
	Elapsed  int
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s: elapsed time %d cannot exceed end time %d", ErrValidation, err.Elapsed, err.Duration)
}

// Is matches ErrValidation.
func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
