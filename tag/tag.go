// Package tag implements the key/value labels attached to configuration
// containers and lookups, such as env=dev or region=eu.
package tag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrOddArguments is returned by Of when keys and values do not pair up.
var ErrOddArguments = errors.New("tags must be given as key/value pairs")

// ErrInvalidTag is returned by Parse for malformed input.
var ErrInvalidTag = errors.New("invalid tag")

// Tag is a single key/value label.
type Tag struct {
	Key   string
	Value string
}

// String returns key=value.
func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Tags is an immutable, sorted set of tags with unique keys.
type Tags struct {
	items []Tag
}

// None is the empty tag set.
//
//nolint:gochecknoglobals // immutable value
var None = Tags{}

// New builds a tag set. Later tags replace earlier ones with the same key.
// Keys are lower-cased.
func New(tags ...Tag) Tags {
	byKey := make(map[string]string, len(tags))

	for _, t := range tags {
		byKey[strings.ToLower(t.Key)] = t.Value
	}

	items := make([]Tag, 0, len(byKey))
	for key, value := range byKey {
		items = append(items, Tag{Key: key, Value: value})
	}

	slices.SortFunc(items, func(a, b Tag) int {
		return strings.Compare(a.Key, b.Key)
	})

	return Tags{items: items}
}

// Of builds a tag set from alternating keys and values.
func Of(keyValues ...string) (Tags, error) {
	if len(keyValues)%2 != 0 {
		return None, ErrOddArguments
	}

	tags := make([]Tag, 0, len(keyValues)/2)
	for i := 0; i < len(keyValues); i += 2 {
		tags = append(tags, Tag{Key: keyValues[i], Value: keyValues[i+1]})
	}

	return New(tags...), nil
}

// MustOf is Of that panics on odd arguments. Intended for literals.
func MustOf(keyValues ...string) Tags {
	tags, err := Of(keyValues...)
	if err != nil {
		panic(err)
	}

	return tags
}

// Parse reads "k=v,k2=v2". An empty string yields None.
func Parse(s string) (Tags, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, nil
	}

	var tags []Tag

	for _, part := range strings.Split(s, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || key == "" {
			return None, fmt.Errorf("%w: %q", ErrInvalidTag, part)
		}

		tags = append(tags, Tag{Key: key, Value: value})
	}

	return New(tags...), nil
}

// Len returns the number of tags.
func (t Tags) Len() int {
	return len(t.items)
}

// IsEmpty reports whether the set has no tags.
func (t Tags) IsEmpty() bool {
	return len(t.items) == 0
}

// All returns a copy of the tags in key order.
func (t Tags) All() []Tag {
	return slices.Clone(t.items)
}

// Get returns the value for key.
func (t Tags) Get(key string) (string, bool) {
	key = strings.ToLower(key)

	for _, item := range t.items {
		if item.Key == key {
			return item.Value, true
		}
	}

	return "", false
}

// Equal reports whether both sets hold the same tags.
func (t Tags) Equal(other Tags) bool {
	return slices.Equal(t.items, other.items)
}

// SubsetOf reports whether every tag of t is present in other.
func (t Tags) SubsetOf(other Tags) bool {
	for _, item := range t.items {
		value, ok := other.Get(item.Key)
		if !ok || value != item.Value {
			return false
		}
	}

	return true
}

// Key returns a canonical string usable as a map key. Equal sets share a key.
func (t Tags) Key() string {
	parts := make([]string, len(t.items))
	for i, item := range t.items {
		parts[i] = item.String()
	}

	return strings.Join(parts, ",")
}

// String returns the canonical form in braces.
func (t Tags) String() string {
	return "{" + t.Key() + "}"
}
