package models

import (
	"time"

	"backoffice/pkg/platform/validation"
)

// ActivitySchema requires a known type and a message.
func ActivitySchema() *validation.Schema[ActivityInput] {
	return validation.NewSchema(
		validation.EnumField("type", func(in ActivityInput) *ActivityType { return in.Type },
			ActivityTypes, "Invalid enum value. Expected 'user_created' | 'user_updated' | 'user_deleted' | 'login' | 'report_generated'"),
		validation.StringField("message", func(in ActivityInput) *string { return in.Message },
			validation.NotBlank("Message is required")),
		validation.StringField("user", func(in ActivityInput) *string { return in.User }).Optional(),
		validation.TimeField("timestamp", func(in ActivityInput) *time.Time { return in.Timestamp }).Optional(),
	)
}
