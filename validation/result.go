package validation

// Result carries an optional value together with findings. A Result may have
// a value and findings at the same time.
type Result[T any] struct {
	value  T
	ok     bool
	errors []Error
}

// Ok returns a Result holding value and any findings raised while producing it.
func Ok[T any](value T, errs ...Error) Result[T] {
	return Result[T]{value: value, ok: true, errors: errs}
}

// Fail returns a Result with no value.
func Fail[T any](errs ...Error) Result[T] {
	return Result[T]{errors: errs}
}

// HasResults reports whether the result holds a value.
func (r Result[T]) HasResults() bool {
	return r.ok
}

// HasErrors reports whether the result holds any finding.
func (r Result[T]) HasErrors() bool {
	return len(r.errors) > 0
}

// Results returns the value, or the zero value if there is none.
func (r Result[T]) Results() T {
	return r.value
}

// Value returns the value and whether one is present.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Errors returns the findings.
func (r Result[T]) Errors() []Error {
	return r.errors
}

// HasErrorsAtLevel reports whether any finding has exactly the given level.
func (r Result[T]) HasErrorsAtLevel(level Level) bool {
	return HasLevel(r.errors, level)
}
