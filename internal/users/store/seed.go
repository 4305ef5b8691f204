package store

import (
	"time"

	"backoffice/internal/users/models"
)

func at(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

// SeedUsers returns the demo accounts the dashboard starts with.
func SeedUsers() []models.User {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.User{
		{
			ID: "1", Name: "John Doe", Email: "john.doe@example.com",
			Role: models.RoleAdmin, Status: models.StatusActive,
			Avatar:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
			LastLogin: at("2024-01-15T10:30:00Z"), CreatedAt: created,
		},
		{
			ID: "2", Name: "Jane Smith", Email: "jane.smith@example.com",
			Role: models.RoleManager, Status: models.StatusActive,
			Avatar:    "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
			LastLogin: at("2024-01-14T15:45:00Z"), CreatedAt: created,
		},
		{
			ID: "3", Name: "Bob Johnson", Email: "bob.johnson@example.com",
			Role: models.RoleUser, Status: models.StatusActive,
			Avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
			LastLogin: at("2024-01-13T09:20:00Z"), CreatedAt: created,
		},
		{
			ID: "4", Name: "Alice Brown", Email: "alice.brown@example.com",
			Role: models.RoleViewer, Status: models.StatusInactive,
			Avatar:    "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
			LastLogin: at("2024-01-10T14:15:00Z"), CreatedAt: created,
		},
		{
			ID: "5", Name: "Charlie Wilson", Email: "charlie.wilson@example.com",
			Role: models.RoleUser, Status: models.StatusPending,
			Avatar:    "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face",
			CreatedAt: created,
		},
	}
}
