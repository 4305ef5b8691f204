package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var formats = validator.New()

// MinLen requires at least n runes.
func MinLen(n int, msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, len([]rune(s)) >= n
	}
}

// MaxLen allows at most n runes.
func MaxLen(n int, msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, len([]rune(s)) <= n
	}
}

// NotBlank rejects empty or whitespace-only strings.
func NotBlank(msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, strings.TrimSpace(s) != ""
	}
}

// Email requires an RFC 5322 address.
func Email(msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, formats.Var(s, "required,email") == nil
	}
}

// URL requires an absolute URL.
func URL(msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, formats.Var(s, "required,url") == nil
	}
}

// OneOf restricts a plain string to allowed values.
func OneOf(allowed []string, msg string) StringRule {
	return func(s string) (string, bool) {
		return msg, slices.Contains(allowed, s)
	}
}

// Min requires n >= lo.
func Min[N Number](lo N, msg string) NumberRule[N] {
	if msg == "" {
		msg = fmt.Sprintf("Number must be greater than or equal to %v", lo)
	}
	return func(n N) (string, bool) {
		return msg, n >= lo
	}
}

// Max requires n <= hi.
func Max[N Number](hi N, msg string) NumberRule[N] {
	if msg == "" {
		msg = fmt.Sprintf("Number must be less than or equal to %v", hi)
	}
	return func(n N) (string, bool) {
		return msg, n <= hi
	}
}

// Range requires lo <= n <= hi.
func Range[N Number](lo, hi N, msg string) NumberRule[N] {
	if msg == "" {
		msg = fmt.Sprintf("Number must be between %v and %v", lo, hi)
	}
	return func(n N) (string, bool) {
		return msg, n >= lo && n <= hi
	}
}
