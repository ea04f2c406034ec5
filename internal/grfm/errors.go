package grfm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMethod indicates a total-reaction method name that matches
	// none of the accepted spellings.
	ErrUnknownMethod = errors.New("grfm: unknown reaction method")

	// ErrUnknownBody indicates a body name the model does not contain.
	ErrUnknownBody = errors.New("grfm: unknown body")

	// ErrNilDependency indicates a missing model or gait-phase source.
	ErrNilDependency = errors.New("grfm: nil model or gait phase source")
)

// ConfigurationError reports an engine parameter rejected at construction.
type ConfigurationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("grfm: invalid %s %q: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Wrapped
}
