package validation

import (
	"slices"
	"time"

	dErrors "backoffice/pkg/domain-errors"
)

// Number is the set of numeric kinds NumberField accepts.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// StringRule inspects a string and returns a failure message when it does
// not hold.
type StringRule func(string) (msg string, ok bool)

// NumberRule is StringRule for numbers.
type NumberRule[N Number] func(N) (msg string, ok bool)

// TimeRule is StringRule for instants.
type TimeRule func(time.Time) (msg string, ok bool)

// StringField checks a string field through get. get returns nil when the
// field was not supplied.
func StringField[T any](path string, get func(T) *string, rules ...StringRule) Field[T] {
	return Field[T]{
		path:    path,
		present: func(v T) bool { return get(v) != nil },
		check: func(v T) []dErrors.FieldError {
			s := *get(v)
			for _, rule := range rules {
				if msg, ok := rule(s); !ok {
					return []dErrors.FieldError{{Path: path, Message: msg}}
				}
			}
			return nil
		},
	}
}

// EnumField restricts a string-kinded field to allowed values.
func EnumField[T any, E ~string](path string, get func(T) *E, allowed []E, msg string) Field[T] {
	return Field[T]{
		path:    path,
		present: func(v T) bool { return get(v) != nil },
		check: func(v T) []dErrors.FieldError {
			if !slices.Contains(allowed, *get(v)) {
				return []dErrors.FieldError{{Path: path, Message: msg}}
			}
			return nil
		},
	}
}

// NumberField checks a numeric field.
func NumberField[T any, N Number](path string, get func(T) *N, rules ...NumberRule[N]) Field[T] {
	return Field[T]{
		path:    path,
		present: func(v T) bool { return get(v) != nil },
		check: func(v T) []dErrors.FieldError {
			n := *get(v)
			for _, rule := range rules {
				if msg, ok := rule(n); !ok {
					return []dErrors.FieldError{{Path: path, Message: msg}}
				}
			}
			return nil
		},
	}
}

// BoolField only checks presence.
func BoolField[T any](path string, get func(T) *bool) Field[T] {
	return Field[T]{
		path:    path,
		present: func(v T) bool { return get(v) != nil },
		check:   func(T) []dErrors.FieldError { return nil },
	}
}

// TimeField checks an instant. A zero time counts as not supplied.
func TimeField[T any](path string, get func(T) *time.Time, rules ...TimeRule) Field[T] {
	return Field[T]{
		path: path,
		present: func(v T) bool {
			t := get(v)
			return t != nil && !t.IsZero()
		},
		check: func(v T) []dErrors.FieldError {
			t := *get(v)
			for _, rule := range rules {
				if msg, ok := rule(t); !ok {
					return []dErrors.FieldError{{Path: path, Message: msg}}
				}
			}
			return nil
		},
	}
}

// Nested validates a sub-object with its own schema in full mode whenever it
// is supplied. Failures are reported as "path.child".
func Nested[T, U any](path string, get func(T) *U, schema *Schema[U]) Field[T] {
	return Field[T]{
		path:    path,
		present: func(v T) bool { return get(v) != nil },
		check: func(v T) []dErrors.FieldError {
			if _, err := schema.Validate(*get(v)); err != nil {
				fields := dErrors.FieldsOf(err)
				out := make([]dErrors.FieldError, len(fields))
				for i, f := range fields {
					out[i] = dErrors.FieldError{Path: path + "." + f.Path, Message: f.Message}
				}
				return out
			}
			return nil
		},
	}
}
