// internal/domain/importer/report.go
package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Report is the final artifact of an upload session, downloadable as
// plain text, JSON or PDF.
type Report struct {
	SessionID  string        `json:"session_id"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"-"`
	ElapsedMS  int64         `json:"elapsed_ms"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	FailedRows int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Successful []Outcome     `json:"successful"`
	Failed     []Outcome     `json:"failed_items"`
}

// buildReport snapshots the session into a report
func (u *Uploader) buildReport() *Report {
	u.session.mu.Lock()
	defer u.session.mu.Unlock()

	successful := make([]Outcome, len(u.session.Successful))
	copy(successful, u.session.Successful)
	failed := make([]Outcome, len(u.session.Failed))
	copy(failed, u.session.Failed)

	elapsed := time.Since(u.session.StartTime)

	return &Report{
		SessionID:  u.session.ID,
		Status:     u.session.Status,
		StartedAt:  u.session.StartTime,
		Elapsed:    elapsed,
		ElapsedMS:  elapsed.Milliseconds(),
		Total:      u.session.Total,
		Succeeded:  u.session.Processed,
		FailedRows: u.session.Errors,
		Skipped:    u.session.Skipped,
		Successful: successful,
		Failed:     failed,
	}
}

// Text renders the report as a plain-text document
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Import report %s\n", r.SessionID)
	fmt.Fprintf(&b, "Started:  %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Elapsed:  %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "Status:   %s\n", r.Status)
	fmt.Fprintf(&b, "Total:    %d\n", r.Total)
	fmt.Fprintf(&b, "Success:  %d\n", r.Succeeded)
	fmt.Fprintf(&b, "Failed:   %d\n", r.FailedRows)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped:  %d (column count mismatch)\n", r.Skipped)
	}

	if len(r.Successful) > 0 {
		b.WriteString("\nSuccessful products:\n")
		for _, outcome := range r.Successful {
			fmt.Fprintf(&b, "  %s (%s): %s\n", outcome.Nombre, outcome.Marca, outcome.Message)
		}
	}

	if len(r.Failed) > 0 {
		b.WriteString("\nFailed products:\n")
		for _, outcome := range r.Failed {
			fmt.Fprintf(&b, "  %s (%s): %s\n", outcome.Nombre, outcome.Marca, outcome.Message)
		}
	}

	return b.String()
}

// JSON renders the report as indented JSON
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
