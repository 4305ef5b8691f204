package models

import "time"

type ReportType string

const (
	TypeUsers       ReportType = "users"
	TypeRevenue     ReportType = "revenue"
	TypeActivity    ReportType = "activity"
	TypePerformance ReportType = "performance"
)

var ReportTypes = []ReportType{TypeUsers, TypeRevenue, TypeActivity, TypePerformance}

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

var GroupBys = []GroupBy{GroupByDay, GroupByWeek, GroupByMonth}

// Filters select the window, kind and granularity of a report.
type Filters struct {
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	ReportType ReportType `json:"report_type"`
	GroupBy    GroupBy    `json:"group_by"`
}

// FiltersInput is the unvalidated payload behind Filters.
type FiltersInput struct {
	StartDate  *time.Time  `json:"start_date,omitempty"`
	EndDate    *time.Time  `json:"end_date,omitempty"`
	ReportType *ReportType `json:"report_type,omitempty"`
	GroupBy    *GroupBy    `json:"group_by,omitempty"`
}

// Filters converts a validated input. GroupBy defaults to day.
func (in FiltersInput) Filters() Filters {
	f := Filters{GroupBy: GroupByDay}
	if in.StartDate != nil {
		f.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		f.EndDate = *in.EndDate
	}
	if in.ReportType != nil {
		f.ReportType = *in.ReportType
	}
	if in.GroupBy != nil {
		f.GroupBy = *in.GroupBy
	}
	return f
}

// MaxPoints bounds the samples in one series, about ten years of days.
const MaxPoints = 3660

// PointCount is the number of samples a series over [start, end] holds when
// stepped by g. It is zero when end precedes start.
func PointCount(start, end time.Time, g GroupBy) int {
	if end.Before(start) {
		return 0
	}
	switch g {
	case GroupByMonth:
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if end.Day() < start.Day() {
			months--
		}
		return months + 1
	case GroupByWeek:
		return int(end.Sub(start)/(7*24*time.Hour)) + 1
	default:
		return int(end.Sub(start)/(24*time.Hour)) + 1
	}
}

// Point is one sample of a series.
type Point struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Composite is the payload of a performance report.
type Composite struct {
	Users   []Point `json:"users"`
	Revenue []Point `json:"revenue"`
}

// Report holds either Series or, for performance reports, Composite.
type Report struct {
	ID          string     `json:"id"`
	Type        ReportType `json:"type"`
	Title       string     `json:"title"`
	Series      []Point    `json:"series,omitempty"`
	Composite   *Composite `json:"composite,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Filters     Filters    `json:"filters"`
}

// Summary aggregates a single series.
type Summary struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
	Count   int     `json:"count"`
}

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatPDF  ExportFormat = "pdf"
)

// Export is a rendered report ready to download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
