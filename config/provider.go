package config

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-config/node"
)

// Provider returns an Fx-friendly constructor that decodes the section at
// path into target, sets defaults and validates it. Values already in target
// are kept unless the section overrides them. An empty path decodes the whole
// tree.
func Provider[T any](target *T, path string, opts ...LookupOption) func(*Config) (*T, error) {
	return func(cfg *Config) (*T, error) {
		section, err := cfg.section(path, opts)
		if err != nil {
			return nil, fmt.Errorf("reading section error: %w", err)
		}

		err = Decode(section, target)
		if err != nil {
			return nil, fmt.Errorf("decoding section %q error: %w", path, err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				cfg.logger.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

//nolint:ireturn // sections are any node kind
func (c *Config) section(path string, opts []LookupOption) (node.Node, error) {
	var settings lookupOptions

	for _, apply := range opts {
		apply(&settings)
	}

	if path == "" {
		root, ok := c.Root(settings.tags)
		if !ok {
			return nil, fmt.Errorf("%w: no tree for tags %s", ErrNotFound, settings.tags)
		}

		return root, nil
	}

	found := c.GetNode(path, settings.tags)

	section, ok := found.Value()
	if !ok || c.policy.HasFatal(found.Errors()) {
		return nil, notFound(path, found.Errors())
	}

	return section, nil
}
