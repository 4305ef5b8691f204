package models

import "backoffice/pkg/platform/validation"

func ProfileSchema() *validation.Schema[ProfileInput] {
	return validation.NewSchema(
		validation.StringField("first_name", func(in ProfileInput) *string { return in.FirstName },
			validation.MinLen(2, "First name must be at least 2 characters")),
		validation.StringField("last_name", func(in ProfileInput) *string { return in.LastName },
			validation.MinLen(2, "Last name must be at least 2 characters")),
		validation.StringField("email", func(in ProfileInput) *string { return in.Email },
			validation.Email("Invalid email address")),
		validation.StringField("avatar", func(in ProfileInput) *string { return in.Avatar },
			validation.URL("Invalid url")).Optional(),
	)
}

func notificationPrefsSchema() *validation.Schema[NotificationPrefsInput] {
	return validation.NewSchema(
		validation.BoolField("email", func(in NotificationPrefsInput) *bool { return in.Email }),
		validation.BoolField("push", func(in NotificationPrefsInput) *bool { return in.Push }),
		validation.BoolField("sms", func(in NotificationPrefsInput) *bool { return in.SMS }),
	)
}

func dashboardPrefsSchema() *validation.Schema[DashboardPrefsInput] {
	return validation.NewSchema(
		validation.EnumField("default_view", func(in DashboardPrefsInput) *DashboardView { return in.DefaultView },
			DashboardViews, "Invalid enum value. Expected 'overview' | 'analytics' | 'reports'"),
		validation.NumberField("refresh_interval", func(in DashboardPrefsInput) *int { return in.RefreshInterval },
			validation.Min(30, ""), validation.Max(3600, "")),
		validation.BoolField("show_charts", func(in DashboardPrefsInput) *bool { return in.ShowCharts }),
		validation.BoolField("show_activity", func(in DashboardPrefsInput) *bool { return in.ShowActivity }),
	)
}

func PreferencesSchema() *validation.Schema[PreferencesInput] {
	return validation.NewSchema(
		validation.EnumField("theme", func(in PreferencesInput) *Theme { return in.Theme },
			Themes, "Invalid enum value. Expected 'light' | 'dark' | 'system'"),
		validation.EnumField("language", func(in PreferencesInput) *Language { return in.Language },
			Languages, "Invalid enum value. Expected 'en' | 'es' | 'fr' | 'de'"),
		validation.StringField("timezone", func(in PreferencesInput) *string { return in.Timezone }),
		validation.Nested("notifications", func(in PreferencesInput) *NotificationPrefsInput { return in.Notifications },
			notificationPrefsSchema()),
		validation.Nested("dashboard", func(in PreferencesInput) *DashboardPrefsInput { return in.Dashboard },
			dashboardPrefsSchema()),
	)
}

// PasswordSchema rejects a confirmation that differs from the new password,
// reporting on confirm_password.
func PasswordSchema() *validation.Schema[PasswordChange] {
	return validation.NewSchema(
		validation.StringField("current_password", func(in PasswordChange) *string { return in.CurrentPassword },
			validation.MinLen(1, "Current password is required")),
		validation.StringField("new_password", func(in PasswordChange) *string { return in.NewPassword },
			validation.MinLen(8, "Password must be at least 8 characters")),
		validation.StringField("confirm_password", func(in PasswordChange) *string { return in.ConfirmPassword },
			validation.MinLen(1, "Please confirm your password")),
	).Refine("confirm_password", "Passwords don't match", func(in PasswordChange) bool {
		return *in.NewPassword == *in.ConfirmPassword
	}, "new_password", "confirm_password")
}
