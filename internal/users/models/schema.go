package models

import (
	"strings"

	"backoffice/pkg/platform/validation"
)

// UserSchema validates UserInput. Avatar is optional even on create.
func UserSchema() *validation.Schema[UserInput] {
	return validation.NewSchema(
		validation.StringField("name", func(in UserInput) *string { return in.Name },
			validation.MinLen(2, "Name must be at least 2 characters")),
		validation.StringField("email", func(in UserInput) *string { return in.Email },
			validation.Email("Invalid email address")),
		validation.EnumField("role", func(in UserInput) *Role { return in.Role },
			Roles, "Invalid enum value. Expected 'admin' | 'manager' | 'user' | 'viewer'"),
		validation.EnumField("status", func(in UserInput) *Status { return in.Status },
			Statuses, "Invalid enum value. Expected 'active' | 'inactive' | 'pending'"),
		validation.StringField("avatar", func(in UserInput) *string { return in.Avatar },
			validation.URL("Invalid url")).Optional(),
	).Normalize(func(in *UserInput) {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			in.Name = &name
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			in.Email = &email
		}
	})
}
