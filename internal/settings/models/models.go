package models

import (
	"time"
	"unicode/utf8"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var Themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

type Language string

var Languages = []Language{"en", "es", "fr", "de"}

type DashboardView string

var DashboardViews = []DashboardView{"overview", "analytics", "reports"}

// Profile is the signed-in operator's identity card.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
}

// FullName joins first and last name with a space.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Initials are the first letters of first and last name.
func (p Profile) Initials() string {
	return firstRune(p.FirstName) + firstRune(p.LastName)
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(r)
}

type NotificationPrefs struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type DashboardPrefs struct {
	DefaultView     DashboardView `json:"default_view"`
	RefreshInterval int           `json:"refresh_interval"`
	ShowCharts      bool          `json:"show_charts"`
	ShowActivity    bool          `json:"show_activity"`
}

type Preferences struct {
	Theme         Theme             `json:"theme"`
	Language      Language          `json:"language"`
	Timezone      string            `json:"timezone"`
	Notifications NotificationPrefs `json:"notifications"`
	Dashboard     DashboardPrefs    `json:"dashboard"`
}

// DefaultProfile and DefaultPreferences seed the singleton.
func DefaultProfile() Profile {
	return Profile{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
	}
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeSystem,
		Language:      "en",
		Timezone:      "America/New_York",
		Notifications: NotificationPrefs{Email: true, Push: true, SMS: false},
		Dashboard: DashboardPrefs{
			DefaultView:     "overview",
			RefreshInterval: 300,
			ShowCharts:      true,
			ShowActivity:    true,
		},
	}
}

// ProfileInput is a partial profile update.
type ProfileInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

func (in ProfileInput) Apply(p *Profile) {
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Avatar != nil {
		p.Avatar = *in.Avatar
	}
}

type NotificationPrefsInput struct {
	Email *bool `json:"email,omitempty"`
	Push  *bool `json:"push,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

type DashboardPrefsInput struct {
	DefaultView     *DashboardView `json:"default_view,omitempty"`
	RefreshInterval *int           `json:"refresh_interval,omitempty"`
	ShowCharts      *bool          `json:"show_charts,omitempty"`
	ShowActivity    *bool          `json:"show_activity,omitempty"`
}

// PreferencesInput is a partial preferences update. Nested groups, when
// supplied, replace the whole group and must be complete.
type PreferencesInput struct {
	Theme         *Theme                  `json:"theme,omitempty"`
	Language      *Language               `json:"language,omitempty"`
	Timezone      *string                 `json:"timezone,omitempty"`
	Notifications *NotificationPrefsInput `json:"notifications,omitempty"`
	Dashboard     *DashboardPrefsInput    `json:"dashboard,omitempty"`
}

func (in PreferencesInput) Apply(p *Preferences) {
	if in.Theme != nil {
		p.Theme = *in.Theme
	}
	if in.Language != nil {
		p.Language = *in.Language
	}
	if in.Timezone != nil {
		p.Timezone = *in.Timezone
	}
	if n := in.Notifications; n != nil {
		p.Notifications = NotificationPrefs{Email: *n.Email, Push: *n.Push, SMS: *n.SMS}
	}
	if d := in.Dashboard; d != nil {
		p.Dashboard = DashboardPrefs{
			DefaultView:     *d.DefaultView,
			RefreshInterval: *d.RefreshInterval,
			ShowCharts:      *d.ShowCharts,
			ShowActivity:    *d.ShowActivity,
		}
	}
}

// PasswordChange is the security form.
type PasswordChange struct {
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}

// AvatarUpload describes the file the client wants to upload.
type AvatarUpload struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// DataExport is the personal-data download.
type DataExport struct {
	Profile     Profile     `json:"profile"`
	Preferences Preferences `json:"preferences"`
	ExportedAt  time.Time   `json:"exported_at"`
}
