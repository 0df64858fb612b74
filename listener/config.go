// Package listener serves read-only inspection of a loaded configuration over
// HTTP, managed by the Fx lifecycle.
package listener

import (
	"errors"
	"time"
)

// DefaultAddress is the default address for the HTTP listener.
const DefaultAddress = "127.0.0.1:8080"

// DefaultRequestTimeout bounds the handling of a single request.
const DefaultRequestTimeout = 10 * time.Second

// ErrEmptyAddress is returned when the address is empty.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrInvalidTimeout is returned when the request timeout is negative.
var ErrInvalidTimeout = errors.New("request timeout must not be negative")

// ErrListenFailed is returned when the server fails to listen on the configured address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server fails to shut down gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// ErrEmptyName is returned when the listener name is empty.
var ErrEmptyName = errors.New("listener name must not be empty")

// ErrNilHandler is returned when a nil http.Handler is provided.
var ErrNilHandler = errors.New("handler must not be nil")

// Config holds the configuration for an HTTP listener. It can be read from a
// configuration section with config.Provider.
type Config struct {
	Address        string        `config:"address"`
	RequestTimeout time.Duration `config:"request_timeout"`
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	if c.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}

	return nil
}
