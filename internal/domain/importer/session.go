// internal/domain/importer/session.go
package importer

import (
	"sync"
	"time"
)

// Session status values
const (
	StatusRunning   = "running"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Outcome is the per-product result of one upload attempt
type Outcome struct {
	Nombre  string `json:"nombre"`
	Marca   string `json:"marca"`
	Message string `json:"message"`
	Updated bool   `json:"updated,omitempty"`
}

// Session tracks the state of one upload run. It is mutated by the
// uploader after every row and read concurrently by the progress
// endpoint, hence the mutex.
type Session struct {
	mu sync.Mutex

	ID        string
	Total     int
	Processed int
	Errors    int
	Skipped   int
	StartTime time.Time
	Status    string

	Successful []Outcome
	Failed     []Outcome
}

// NewSession creates a session for the given number of rows
func NewSession(id string, total, skipped int) *Session {
	return &Session{
		ID:        id,
		Total:     total,
		Skipped:   skipped,
		StartTime: time.Now(),
		Status:    StatusRunning,
	}
}

// Progress is a copyable snapshot of a session for the admin UI
type Progress struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Errors    int    `json:"errors"`
	Skipped   int    `json:"skipped"`
	Percent   int    `json:"percent"`
	Elapsed   int64  `json:"elapsed_ms"`
}

// Snapshot returns the current progress
func (s *Session) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	percent := 0
	if s.Total > 0 {
		percent = (s.Processed + s.Errors) * 100 / s.Total
	}

	return Progress{
		SessionID: s.ID,
		Status:    s.Status,
		Total:     s.Total,
		Processed: s.Processed,
		Errors:    s.Errors,
		Skipped:   s.Skipped,
		Percent:   percent,
		Elapsed:   time.Since(s.StartTime).Milliseconds(),
	}
}

func (s *Session) recordSuccess(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Processed++
	s.Successful = append(s.Successful, outcome)
}

func (s *Session) recordFailure(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors++
	s.Failed = append(s.Failed, outcome)
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

// transition changes Status from one value to another. Any other
// current status leaves the session untouched and reports false.
func (s *Session) transition(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != from {
		return false
	}
	s.Status = to
	return true
}
