package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"backoffice/internal/reports/models"
	dErrors "backoffice/pkg/domain-errors"
)

// valueRange is the half-open interval [lo, lo+span) a series samples from.
type valueRange struct {
	lo, span int
}

var ranges = map[models.ReportType]valueRange{
	models.TypeUsers:    {lo: 50, span: 100},
	models.TypeRevenue:  {lo: 5000, span: 10000},
	models.TypeActivity: {lo: 100, span: 500},
}

// Generator produces mock series. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Series samples one point per step from start through end inclusive. It
// stops early when ctx is done.
func (g *Generator) Series(ctx context.Context, t models.ReportType, start, end time.Time, groupBy models.GroupBy) ([]models.Point, error) {
	r := ranges[t]
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]models.Point, 0, min(models.PointCount(start, end, groupBy), models.MaxPoints))
	for cur := start; !cur.After(end); cur = step(cur, groupBy) {
		if err := ctx.Err(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "report generation interrupted")
		}
		points = append(points, models.Point{
			Date:  cur.UTC().Format(time.DateOnly),
			Value: r.lo + g.rng.IntN(r.span),
			Label: cur.Format("1/2/2006"),
		})
	}
	return points, nil
}

// Build fills the payload of a report for f.
func (g *Generator) Build(ctx context.Context, f models.Filters) ([]models.Point, *models.Composite, error) {
	if f.ReportType != models.TypePerformance {
		series, err := g.Series(ctx, f.ReportType, f.StartDate, f.EndDate, f.GroupBy)
		return series, nil, err
	}
	users, err := g.Series(ctx, models.TypeUsers, f.StartDate, f.EndDate, f.GroupBy)
	if err != nil {
		return nil, nil, err
	}
	revenue, err := g.Series(ctx, models.TypeRevenue, f.StartDate, f.EndDate, f.GroupBy)
	if err != nil {
		return nil, nil, err
	}
	return nil, &models.Composite{Users: users, Revenue: revenue}, nil
}

func step(t time.Time, groupBy models.GroupBy) time.Time {
	switch groupBy {
	case models.GroupByWeek:
		return t.AddDate(0, 0, 7)
	case models.GroupByMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Title renders "Users Report" from "users".
func Title(t models.ReportType) string {
	s := string(t)
	if s == "" {
		return "Report"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Report"
}
