// internal/domain/importer/service.go
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
	"github.com/your-org/perfumeria-backend/internal/store"
)

// Notifier delivers the final report somewhere out of band (email)
type Notifier interface {
	SendImportReport(to string, report *Report) error
}

// RowError lists the validation problems of one rejected row
type RowError struct {
	Line   int      `json:"line"`
	Errors []string `json:"errors"`
}

// StartResult is returned when an import session is accepted
type StartResult struct {
	SessionID string     `json:"session_id,omitempty"`
	Total     int        `json:"total"`
	Valid     int        `json:"valid"`
	Skipped   int        `json:"skipped"`
	Invalid   []RowError `json:"invalid,omitempty"`
}

// Service coordinates the whole import pipeline: parse, validate,
// normalize, then a background batched upload tracked in a session
// registry. Progress snapshots are mirrored to Redis so they survive
// process-local polling from the admin UI.
type Service struct {
	store    store.RemoteStore
	redis    *redis.Client
	config   *config.Config
	log      *logrus.Logger
	notifier Notifier

	mu        sync.Mutex
	uploaders map[string]*Uploader
	reports   map[string]*Report
}

// NewService creates a new import service. redis and notifier may be nil.
func NewService(remote store.RemoteStore, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger, notifier Notifier) *Service {
	return &Service{
		store:     remote,
		redis:     redisClient,
		config:    cfg,
		log:       log,
		notifier:  notifier,
		uploaders: make(map[string]*Uploader),
		reports:   make(map[string]*Report),
	}
}

// Start parses and validates the file text and, when at least one row
// is valid, launches the background upload. File-level problems
// (format, missing columns, row caps) come back as errors; row-level
// validation problems come back as values in the result.
func (s *Service) Start(ctx context.Context, text string, opts Options) (*StartResult, error) {
	parser := NewParser(s.config.Import.MaxRows)
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	result := &StartResult{
		Total:   len(parsed.Rows),
		Skipped: parsed.Skipped,
	}

	var valid []product.Product
	for _, row := range parsed.Rows {
		if problems := Validate(row); len(problems) > 0 {
			result.Invalid = append(result.Invalid, RowError{Line: row.Line, Errors: problems})
			continue
		}
		valid = append(valid, Normalize(row))
	}
	result.Valid = len(valid)

	if len(valid) == 0 {
		return result, nil
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = s.config.Import.BatchSize
	}
	if opts.ChunkDelay <= 0 {
		opts.ChunkDelay = s.config.Import.ChunkDelay
	}

	uploader := NewUploader(s.store, s.log, opts, valid, parsed.Skipped)
	sessionID := uploader.Session().ID
	result.SessionID = sessionID

	s.mu.Lock()
	s.uploaders[sessionID] = uploader
	s.mu.Unlock()

	go s.run(uploader)

	return result, nil
}

// run drives one upload session to a terminal or paused state
func (s *Service) run(uploader *Uploader) {
	sessionID := uploader.Session().ID

	// The upload outlives the HTTP request that started it
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := uploader.Run(ctx)
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Error("import session failed")
	}

	s.mu.Lock()
	s.reports[sessionID] = report
	s.mu.Unlock()

	s.publishProgress(ctx, uploader.Session())

	if report.Status == StatusCompleted || report.Status == StatusFailed {
		s.notify(report)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"status":     report.Status,
		"succeeded":  report.Succeeded,
		"failed":     report.FailedRows,
	}).Info("import session finished")
}

// Progress returns the live progress of a session
func (s *Service) Progress(ctx context.Context, sessionID string) (*Progress, error) {
	uploader, err := s.uploader(sessionID)
	if err != nil {
		return nil, err
	}

	progress := uploader.Session().Snapshot()
	s.publishProgress(ctx, uploader.Session())
	return &progress, nil
}

// Cancel stops a running session at its next check point
func (s *Service) Cancel(sessionID string) error {
	uploader, err := s.uploader(sessionID)
	if err != nil {
		return err
	}
	uploader.Cancel()
	return nil
}

// Pause suspends a running session, keeping its cursor
func (s *Service) Pause(sessionID string) error {
	uploader, err := s.uploader(sessionID)
	if err != nil {
		return err
	}
	uploader.Pause()
	return nil
}

// ErrNotPaused is returned by Resume for a session that is running or
// already finished.
var ErrNotPaused = fmt.Errorf("import session is not paused")

// Resume continues a paused session from its cursor. Resuming a
// session in any other state is refused, so a running upload never
// gains a second Run loop.
func (s *Service) Resume(sessionID string) error {
	uploader, err := s.uploader(sessionID)
	if err != nil {
		return err
	}

	if !uploader.Resume() {
		return ErrNotPaused
	}
	go s.run(uploader)
	return nil
}

// Report returns the final report of a session, or the current state
// for a session still running.
func (s *Service) Report(sessionID string) (*Report, error) {
	s.mu.Lock()
	report, ok := s.reports[sessionID]
	s.mu.Unlock()
	if ok {
		return report, nil
	}

	uploader, err := s.uploader(sessionID)
	if err != nil {
		return nil, err
	}
	return uploader.buildReport(), nil
}

func (s *Service) uploader(sessionID string) (*Uploader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploader, ok := s.uploaders[sessionID]
	if !ok {
		return nil, fmt.Errorf("import session not found: %s", sessionID)
	}
	return uploader, nil
}

// publishProgress mirrors the session snapshot to Redis
func (s *Service) publishProgress(ctx context.Context, session *Session) {
	if s.redis == nil {
		return
	}

	snapshot := session.Snapshot()
	data, err := json.Marshal(&snapshot)
	if err != nil {
		return
	}

	key := fmt.Sprintf("import:session:%s", session.ID)
	if err := s.redis.Set(ctx, key, data, time.Hour).Err(); err != nil {
		s.log.WithError(err).WithField("session_id", session.ID).Warn("failed to publish import progress")
	}
}

// notify mails the final report to the configured admin address
func (s *Service) notify(report *Report) {
	to := s.config.Import.NotifyEmail
	if s.notifier == nil || to == "" {
		return
	}
	if err := s.notifier.SendImportReport(to, report); err != nil {
		s.log.WithError(err).Warn("failed to send import report email")
	}
}
