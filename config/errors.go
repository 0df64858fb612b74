package config

import (
	"errors"
	"strings"

	"go.uber.org/multierr"

	"github.com/0xalexb/hjarta-config/validation"
)

var (
	// ErrLoadFailed is wrapped by every error returned from Load and Reload
	// when a source could not be read or a finding was fatal.
	ErrLoadFailed = errors.New("configuration load failed")

	// ErrNotFound is returned by lookups when no value exists for a path.
	ErrNotFound = errors.New("configuration value not found")

	// ErrDecode is returned by lookups when a value cannot be decoded into the target type.
	ErrDecode = errors.New("configuration value cannot be decoded")

	// ErrUnknownSource is returned by Reload for an ID that is not one of the sources.
	ErrUnknownSource = errors.New("unknown configuration source")

	// ErrNotLoaded is returned when an operation needs a loaded Config.
	ErrNotLoaded = errors.New("configuration not loaded")

	// ErrAlreadyLoaded is returned when Load is called twice.
	ErrAlreadyLoaded = errors.New("configuration already loaded")
)

// LoadError aggregates everything that made a load or reload fail.
type LoadError struct {
	// Findings holds the fatal validation findings.
	Findings []validation.Error
	errs     error
}

func newLoadError(findings []validation.Error, sourceErrs error) *LoadError {
	errs := sourceErrs
	for _, finding := range findings {
		errs = multierr.Append(errs, finding)
	}

	return &LoadError{Findings: findings, errs: errs}
}

// Error renders one failure per line.
func (e *LoadError) Error() string {
	var builder strings.Builder

	builder.WriteString(ErrLoadFailed.Error())
	builder.WriteByte(':')

	for _, err := range multierr.Errors(e.errs) {
		builder.WriteByte('\n')

		var finding validation.Error
		if errors.As(err, &finding) {
			builder.WriteString(validation.Format([]validation.Error{finding}))

			continue
		}

		builder.WriteString(" - error: ")
		builder.WriteString(err.Error())
	}

	return builder.String()
}

// Unwrap exposes ErrLoadFailed and every aggregated error to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	return append([]error{ErrLoadFailed}, multierr.Errors(e.errs)...)
}
