package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/validation"
)

// TagName is the struct tag read when decoding into structs.
const TagName = "config"

type lookupOptions struct {
	tags tag.Tags
}

// LookupOption configures a single lookup.
type LookupOption func(*lookupOptions)

// WithLookupTags looks the path up in the trees eligible for tags.
func WithLookupTags(tags tag.Tags) LookupOption {
	return func(opts *lookupOptions) {
		opts.tags = tags
	}
}

// Get decodes the value at path into a T. It returns an error wrapping
// ErrNotFound when the path is malformed or has no value, and ErrDecode when
// the value does not fit T.
func Get[T any](c *Config, path string, opts ...LookupOption) (T, error) {
	var target T

	value, err := c.section(path, opts)
	if err != nil {
		return target, err
	}

	err = Decode(value, &target)
	if err != nil {
		return target, fmt.Errorf("path %q: %w", path, err)
	}

	return target, nil
}

// GetOptional is Get reporting a missing value as false instead of an error.
func GetOptional[T any](c *Config, path string, opts ...LookupOption) (T, bool, error) {
	value, err := Get[T](c, path, opts...)
	if errors.Is(err, ErrNotFound) {
		return value, false, nil
	}

	if err != nil {
		return value, false, err
	}

	return value, true, nil
}

// GetDefault is Get returning fallback when the value is missing or cannot
// be decoded.
func GetDefault[T any](c *Config, path string, fallback T, opts ...LookupOption) T {
	value, err := Get[T](c, path, opts...)
	if err != nil {
		c.logger.Debug("configuration default used",
			slog.String("path", path),
			slog.String("error", err.Error()))

		return fallback
	}

	return value
}

// Decode converts n into target, which must be a non-nil pointer. Leaf text
// is converted to numbers, booleans and durations as needed.
func Decode(n node.Node, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          TagName,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	err = decoder.Decode(node.ToValue(n))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

func notFound(path string, findings []validation.Error) error {
	if len(findings) == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	return fmt.Errorf("%w: %q:\n%s", ErrNotFound, path, validation.Format(findings))
}
