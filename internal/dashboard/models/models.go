package models

import "time"

// Stats are the headline counters.
type Stats struct {
	TotalUsers     int     `json:"total_users"`
	ActiveUsers    int     `json:"active_users"`
	NewUsers       int     `json:"new_users"`
	TotalRevenue   int     `json:"total_revenue"`
	MonthlyGrowth  float64 `json:"monthly_growth"`
	ConversionRate float64 `json:"conversion_rate"`
}

func SeedStats() Stats {
	return Stats{
		TotalUsers:     1247,
		ActiveUsers:    892,
		NewUsers:       45,
		TotalRevenue:   125000,
		MonthlyGrowth:  12.5,
		ConversionRate: 3.2,
	}
}

// FormattedStats is Stats rendered for display.
type FormattedStats struct {
	TotalUsers     string `json:"total_users"`
	ActiveUsers    string `json:"active_users"`
	NewUsers       string `json:"new_users"`
	TotalRevenue   string `json:"total_revenue"`
	MonthlyGrowth  string `json:"monthly_growth"`
	ConversionRate string `json:"conversion_rate"`
}

type ActivityType string

const (
	ActivityUserCreated     ActivityType = "user_created"
	ActivityUserUpdated     ActivityType = "user_updated"
	ActivityUserDeleted     ActivityType = "user_deleted"
	ActivityLogin           ActivityType = "login"
	ActivityReportGenerated ActivityType = "report_generated"
)

var ActivityTypes = []ActivityType{
	ActivityUserCreated,
	ActivityUserUpdated,
	ActivityUserDeleted,
	ActivityLogin,
	ActivityReportGenerated,
}

type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	User      string       `json:"user,omitempty"`
}

// ActivityInput is a new log entry. Timestamp defaults to the request time.
type ActivityInput struct {
	Type      *ActivityType `json:"type,omitempty"`
	Message   *string       `json:"message,omitempty"`
	User      *string       `json:"user,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
}

// SeedActivity is the log the dashboard starts with, most recent first.
func SeedActivity() []Activity {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []Activity{
		{ID: "1", Type: ActivityUserCreated, Message: "New user registered", Timestamp: at("2024-01-15T14:30:00Z"), User: "john.doe@example.com"},
		{ID: "2", Type: ActivityLogin, Message: "User logged in", Timestamp: at("2024-01-15T14:25:00Z"), User: "jane.smith@example.com"},
		{ID: "3", Type: ActivityReportGenerated, Message: "Monthly report generated", Timestamp: at("2024-01-15T14:20:00Z"), User: "admin@example.com"},
		{ID: "4", Type: ActivityUserUpdated, Message: "User profile updated", Timestamp: at("2024-01-15T14:15:00Z"), User: "bob.johnson@example.com"},
		{ID: "5", Type: ActivityUserDeleted, Message: "User account deleted", Timestamp: at("2024-01-15T14:10:00Z"), User: "inactive@example.com"},
	}
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"background_color,omitempty"`
	BorderColor     []string  `json:"border_color,omitempty"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Charts groups the dashboard's chart datasets.
type Charts struct {
	UserGrowth       ChartData `json:"user_growth"`
	Revenue          ChartData `json:"revenue"`
	RoleDistribution ChartData `json:"role_distribution"`
}

func SeedCharts() Charts {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	return Charts{
		UserGrowth: ChartData{
			Labels: months,
			Datasets: []Dataset{{
				Label:           "New Users",
				Data:            []float64{65, 78, 90, 85, 95, 120},
				BackgroundColor: []string{"rgba(59, 130, 246, 0.2)"},
				BorderColor:     []string{"rgba(59, 130, 246, 1)"},
			}},
		},
		Revenue: ChartData{
			Labels: months,
			Datasets: []Dataset{{
				Label:           "Revenue",
				Data:            []float64{12000, 15000, 18000, 16000, 22000, 25000},
				BackgroundColor: []string{"rgba(34, 197, 94, 0.2)"},
				BorderColor:     []string{"rgba(34, 197, 94, 1)"},
			}},
		},
		RoleDistribution: ChartData{
			Labels: []string{"Admin", "Manager", "User", "Viewer"},
			Datasets: []Dataset{{
				Label: "Users by Role",
				Data:  []float64{5, 12, 45, 23},
				BackgroundColor: []string{
					"rgba(239, 68, 68, 0.8)",
					"rgba(245, 158, 11, 0.8)",
					"rgba(59, 130, 246, 0.8)",
					"rgba(107, 114, 128, 0.8)",
				},
			}},
		},
	}
}
