package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"backoffice/internal/reports/models"
	dErrors "backoffice/pkg/domain-errors"
)

// Render turns a report into a downloadable document. PDF rendering is a
// placeholder that yields an empty body.
func Render(r models.Report, format models.ExportFormat) (*models.Export, error) {
	out := &models.Export{Filename: fmt.Sprintf("report-%s.%s", r.ID, format)}
	switch format {
	case models.FormatCSV:
		body, err := renderCSV(r)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render csv")
		}
		out.ContentType = "text/csv"
		out.Body = body
	case models.FormatJSON:
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render json")
		}
		out.ContentType = "application/json"
		out.Body = body
	case models.FormatPDF:
		out.ContentType = "application/pdf"
		out.Body = []byte{}
	default:
		return nil, dErrors.Newf(dErrors.CodeUnsupported, "Unsupported export format: %s", format)
	}
	return out, nil
}

func renderCSV(r models.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if r.Composite != nil {
		_ = w.Write([]string{"series", "date", "value", "label"})
		for _, named := range []struct {
			name   string
			points []models.Point
		}{
			{"users", r.Composite.Users},
			{"revenue", r.Composite.Revenue},
		} {
			for _, p := range named.points {
				_ = w.Write([]string{named.name, p.Date, strconv.Itoa(p.Value), p.Label})
			}
		}
	} else {
		_ = w.Write([]string{"date", "value", "label"})
		for _, p := range r.Series {
			_ = w.Write([]string{p.Date, strconv.Itoa(p.Value), p.Label})
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
