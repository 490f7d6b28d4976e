package core

import "fmt"

// ConfigurationError reports a catalog, rule table or settings document that
// fails its load-time invariants. The process must not start with one.
type ConfigurationError struct {
	Source  string // e.g. "catalog", "rules", "settings"
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("configuration %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("configuration: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected request field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LockError represents a file locking error.
type LockError struct {
	Operation string
	Message   string
	Err       error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("lock %s: %s", e.Operation, e.Message)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing project or assessment.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
