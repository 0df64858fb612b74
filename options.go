package hjarta

import (
	"io"

	"go.uber.org/fx"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/listener"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	Config    []config.Option
	LogLevel  string
	LogFormat string
	Output    io.Writer

	configEnabled bool
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithConfig adds the config module, loading a *config.Config from the given
// options while the graph is built. Repeated calls accumulate options.
func WithConfig(opts ...config.Option) Option {
	return func(o *Options) {
		o.configEnabled = true
		o.Config = append(o.Config, opts...)
	}
}

// WithInspection adds a named HTTP listener serving the loaded configuration.
// Without listener options its settings come from the "listener.<name>"
// configuration section. Requires WithConfig.
func WithInspection(name string, opts ...listener.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, listener.NewModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat sets the log format, "json" (default) or "text".
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithLogOutput sets where logs are written. Defaults to os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
	}
}
