package models

import (
	"errors"
	"fmt"
	"time"
)

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate match record")
	ErrInvalidID       = errors.New("invalid ID format")
)

// ValidationError reports a malformed input record. It carries the offending
// field and value so the caller can diagnose the row without re-running the
// pipeline.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// NewValidationError creates a new validation error
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s (value %q): %s", e.Field, e.Value, e.Reason)
}

// InsufficientDataError reports that the available history cannot support
// training (empty or single-class training partition).
type InsufficientDataError struct {
	Team   string
	Have   int
	Need   int
	Reason string
}

// NewInsufficientDataError creates a new insufficient data error
func NewInsufficientDataError(team string, have, need int, reason string) *InsufficientDataError {
	return &InsufficientDataError{Team: team, Have: have, Need: need, Reason: reason}
}

func (e *InsufficientDataError) Error() string {
	if e.Team != "" {
		return fmt.Sprintf("insufficient data for %s: have %d, need %d: %s", e.Team, e.Have, e.Need, e.Reason)
	}
	return fmt.Sprintf("insufficient data: have %d, need %d: %s", e.Have, e.Need, e.Reason)
}

// ConfigurationError reports an invalid pipeline parameter, such as a split
// cutoff that empties the test partition or a window size below one.
type ConfigurationError struct {
	Parameter string
	Value     string
	Reason    string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(parameter, value, reason string) *ConfigurationError {
	return &ConfigurationError{Parameter: parameter, Value: value, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%s: %s", e.Parameter, e.Value, e.Reason)
}

// FeatureMismatchError reports that a prediction request cannot be aligned to
// the trained feature set, naming the team, date, and feature that failed.
type FeatureMismatchError struct {
	Team    string
	Date    time.Time
	Feature string
	Reason  string
}

// NewFeatureMismatchError creates a new feature mismatch error
func NewFeatureMismatchError(team string, date time.Time, feature, reason string) *FeatureMismatchError {
	return &FeatureMismatchError{Team: team, Date: date, Feature: feature, Reason: reason}
}

func (e *FeatureMismatchError) Error() string {
	msg := fmt.Sprintf("feature mismatch for %s", e.Team)
	if !e.Date.IsZero() {
		msg += fmt.Sprintf(" on %s", e.Date.Format("2006-01-02"))
	}
	if e.Feature != "" {
		msg += fmt.Sprintf(" (feature %s)", e.Feature)
	}
	return msg + ": " + e.Reason
}
