package models

import (
	"fmt"
	"time"

	"backoffice/pkg/platform/validation"
)

// FiltersSchema validates report filters. Dates and type are required; an
// end date before the start date, or a window wider than MaxPoints steps, is
// rejected on end_date.
func FiltersSchema() *validation.Schema[FiltersInput] {
	return validation.NewSchema(
		validation.TimeField("start_date", func(in FiltersInput) *time.Time { return in.StartDate }),
		validation.TimeField("end_date", func(in FiltersInput) *time.Time { return in.EndDate }),
		validation.EnumField("report_type", func(in FiltersInput) *ReportType { return in.ReportType },
			ReportTypes, "Invalid enum value. Expected 'users' | 'revenue' | 'activity' | 'performance'"),
		validation.EnumField("group_by", func(in FiltersInput) *GroupBy { return in.GroupBy },
			GroupBys, "Invalid enum value. Expected 'day' | 'week' | 'month'").Optional(),
	).Refine("end_date", "End date must be after start date", func(in FiltersInput) bool {
		return !in.EndDate.Before(*in.StartDate)
	}, "start_date", "end_date").
		Refine("end_date", fmt.Sprintf("Date range must not exceed %d points", MaxPoints), func(in FiltersInput) bool {
			return PointCount(*in.StartDate, *in.EndDate, in.Filters().GroupBy) <= MaxPoints
		}, "start_date", "end_date")
}
