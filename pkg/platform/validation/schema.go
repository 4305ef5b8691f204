// Package validation implements schema-based input checking for request
// payloads. A Schema is an ordered list of field checks plus cross-field
// refinements. Refinements only run once every field check has passed, so a
// refinement can assume the fields it reads are individually valid.
//
// Schemas work on typed input structs whose optional fields are pointers. In
// partial mode a nil pointer means "not supplied" and the field is skipped;
// in full mode a nil pointer fails with "Required".
package validation

import (
	dErrors "backoffice/pkg/domain-errors"
)

// RequiredMessage is reported for fields missing in full mode.
const RequiredMessage = "Required"

// Field is a single named check over an input of type T.
type Field[T any] struct {
	path     string
	optional bool
	present  func(T) bool
	check    func(T) []dErrors.FieldError
}

// Path returns the dotted field path this check reports on.
func (f Field[T]) Path() string { return f.path }

// Optional marks the field as not required in full mode.
func (f Field[T]) Optional() Field[T] {
	f.optional = true
	return f
}

type refinement[T any] struct {
	path    string
	message string
	needs   []string
	holds   func(T) bool
}

// Schema validates values of type T.
type Schema[T any] struct {
	normalize   []func(*T)
	fields      []Field[T]
	refinements []refinement[T]
}

// NewSchema builds a schema from ordered field checks. Failures are reported
// in field order.
func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	return &Schema[T]{fields: fields}
}

// Normalize registers a transform applied to the input before any check.
func (s *Schema[T]) Normalize(fn func(*T)) *Schema[T] {
	s.normalize = append(s.normalize, fn)
	return s
}

// Refine adds a cross-field rule. When holds returns false the message is
// attached to path. In partial mode the rule is skipped unless every field
// named in needs was supplied.
func (s *Schema[T]) Refine(path, message string, holds func(T) bool, needs ...string) *Schema[T] {
	s.refinements = append(s.refinements, refinement[T]{
		path:    path,
		message: message,
		needs:   needs,
		holds:   holds,
	})
	return s
}

// Validate checks every field. Missing required fields fail.
func (s *Schema[T]) Validate(v T) (T, error) {
	return s.run(v, false)
}

// ValidatePartial checks only the fields present in v.
func (s *Schema[T]) ValidatePartial(v T) (T, error) {
	return s.run(v, true)
}

func (s *Schema[T]) run(v T, partial bool) (T, error) {
	for _, fn := range s.normalize {
		fn(&v)
	}

	var failures []dErrors.FieldError
	supplied := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		if !f.present(v) {
			if !partial && !f.optional {
				failures = append(failures, dErrors.FieldError{Path: f.path, Message: RequiredMessage})
			}
			continue
		}
		supplied[f.path] = true
		failures = append(failures, f.check(v)...)
	}
	if len(failures) > 0 {
		return v, dErrors.Validation(failures...)
	}

	for _, r := range s.refinements {
		if partial && !allSupplied(supplied, r.needs) {
			continue
		}
		if !r.holds(v) {
			failures = append(failures, dErrors.FieldError{Path: r.path, Message: r.message})
		}
	}
	if len(failures) > 0 {
		return v, dErrors.Validation(failures...)
	}
	return v, nil
}

func allSupplied(supplied map[string]bool, needs []string) bool {
	for _, n := range needs {
		if !supplied[n] {
			return false
		}
	}
	return true
}
