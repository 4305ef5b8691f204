package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleViewer  Role = "viewer"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleUser, RoleViewer}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusPending}

// User is a dashboard account record.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	Avatar    string     `json:"avatar,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserInput carries create and update payloads. A nil field was not
// supplied; update leaves it unchanged.
type UserInput struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *Role   `json:"role,omitempty"`
	Status *Status `json:"status,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Apply merges the supplied fields into u.
func (in UserInput) Apply(u *User) {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
}

// FilterAll matches any status or role.
const FilterAll = "all"

// Filter is the list view-state: free-text search plus status and role
// equality. Empty or "all" disables a criterion.
type Filter struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

// Matches reports whether u passes every criterion of f.
func (f Filter) Matches(u User) bool {
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			return false
		}
	}
	if f.Status != "" && f.Status != FilterAll && string(u.Status) != f.Status {
		return false
	}
	if f.Role != "" && f.Role != FilterAll && string(u.Role) != f.Role {
		return false
	}
	return true
}
