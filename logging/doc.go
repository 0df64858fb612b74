// Package logging provides structured logging using Go's standard library log/slog.
// It writes JSON or text records and renders configuration findings as
// structured attributes. It integrates with Uber's Fx dependency injection framework.
package logging
