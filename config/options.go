package config

import (
	"log/slog"

	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/loader"
	"github.com/0xalexb/hjarta-config/postprocess"
	"github.com/0xalexb/hjarta-config/source"
	"github.com/0xalexb/hjarta-config/validation"
)

// Options holds the settings of a Config.
type Options struct {
	Sources        []source.Source
	Loaders        []loader.Loader
	Lexer          *lexer.Lexer
	Policy         validation.Policy
	Logger         *slog.Logger
	PostProcessors []postprocess.Processor
	SystemValues   map[string]string
	FailFast       bool
	Watch          bool

	postProcessorsSet bool
}

// Option defines a function type for configuring a Config.
type Option func(*Options)

// WithSources appends sources. Later sources override earlier ones.
func WithSources(sources ...source.Source) Option {
	return func(opts *Options) {
		opts.Sources = append(opts.Sources, sources...)
	}
}

// WithLoaders registers loaders on top of the built-in ones.
func WithLoaders(loaders ...loader.Loader) Option {
	return func(opts *Options) {
		opts.Loaders = append(opts.Loaders, loaders...)
	}
}

// WithLexer sets the lexer used for lookup paths. The default is lexer.Default().
func WithLexer(lex *lexer.Lexer) Option {
	return func(opts *Options) {
		opts.Lexer = lex
	}
}

// WithPolicy sets which findings make a load fail.
func WithPolicy(policy validation.Policy) Option {
	return func(opts *Options) {
		opts.Policy = policy
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithPostProcessors replaces the default substitution processor.
// Calling it without processors disables post-processing.
func WithPostProcessors(processors ...postprocess.Processor) Option {
	return func(opts *Options) {
		opts.PostProcessors = append(opts.PostProcessors, processors...)
		opts.postProcessorsSet = true
	}
}

// WithSystemValues sets the values served by the "sys" substitution transformer.
func WithSystemValues(values map[string]string) Option {
	return func(opts *Options) {
		opts.SystemValues = values
	}
}

// WithFailFast stops building and post-processing at the first error-level finding.
func WithFailFast(failFast bool) Option {
	return func(opts *Options) {
		opts.FailFast = failFast
	}
}

// WithWatch makes Module reload file sources when they change on disk.
func WithWatch(watch bool) Option {
	return func(opts *Options) {
		opts.Watch = watch
	}
}

func (o *Options) processors() []postprocess.Processor {
	if o.postProcessorsSet {
		return o.PostProcessors
	}

	return []postprocess.Processor{
		postprocess.NewSubstitution([]postprocess.Transformer{
			postprocess.NewMapTransformer("sys", o.SystemValues),
			postprocess.NewEnvTransformer(),
			postprocess.NewNodeTransformer(o.Lexer),
		}),
	}
}
