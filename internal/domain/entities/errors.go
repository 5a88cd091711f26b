package entities

import (
	"errors"
	"fmt"
)

// LoadError indicates a model asset could not be fetched or decoded.
// The cache is left untouched when a load fails; the error is surfaced
// to the page for display and is not retried automatically.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading model %q from %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps a fetch or decode failure for the given asset.
func NewLoadError(name, path string, err error) *LoadError {
	return &LoadError{Name: name, Path: path, Err: err}
}

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// UnsupportedEnvironmentError indicates the render backend cannot supply
// frame counters or a drawing surface. Surfaced to the page with a
// dismissable notice rather than aborting the server.
type UnsupportedEnvironmentError struct {
	Reason string
}

func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("unsupported environment: %s", e.Reason)
}

// IsUnsupportedEnvironment reports whether err is (or wraps) an
// UnsupportedEnvironmentError.
func IsUnsupportedEnvironment(err error) bool {
	var ue *UnsupportedEnvironmentError
	return errors.As(err, &ue)
}
