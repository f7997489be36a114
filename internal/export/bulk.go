package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// JSON writes the full plan documents as a JSON array.
type JSON struct{}

// RenderAll implements BulkRenderer.
func (JSON) RenderAll(w io.Writer, plans []domain.Plan) error {
	if plans == nil {
		plans = []domain.Plan{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plans); err != nil {
		return fmt.Errorf("export.JSON: %w", err)
	}
	return nil
}

// csvHeaders defines the column names written as the first row of the CSV export.
var csvHeaders = []string{
	"plan_id", "session", "datetime", "objective", "location", "attendees",
	"slot_count", "attendee_count", "attendee_names", "created_at", "updated_at",
}

// CSV writes one summary row per plan. Attendee names within a row are
// pipe-separated ("|") to keep each plan on a single line.
type CSV struct{}

// RenderAll implements BulkRenderer.
func (CSV) RenderAll(w io.Writer, plans []domain.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export.CSV: %w", err)
	}
	for _, p := range plans {
		if err := cw.Write(exportRowToCSVRecord(domain.NewExportRow(p))); err != nil {
			return fmt.Errorf("export.CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.CSV: %w", err)
	}
	return nil
}

func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.PlanID,
		r.Session,
		r.DateTime,
		r.Objective,
		r.Location,
		r.Attendees,
		strconv.Itoa(r.SlotCount),
		strconv.Itoa(r.AttendeeCount),
		strings.Join(r.AttendeeNames, "|"),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	}
}

// formatTime returns the RFC3339 representation of t, or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
