package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
	"github.com/your-org/perfumeria-backend/internal/store"
)

// fakeStore is an in-memory RemoteStore for uploader tests
type fakeStore struct {
	mu       sync.Mutex
	inserts  []store.Row
	updates  []store.Row
	existing map[string]bool // keyed by "nombre|marca"
	failOn   map[string]error
	pingErr  error

	// When set, Insert signals insertStarted once and then blocks on
	// insertGate, letting a test hold a run mid-row.
	insertStarted chan struct{}
	insertGate    chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existing: make(map[string]bool),
		failOn:   make(map[string]error),
	}
}

func (f *fakeStore) Select(ctx context.Context, table string, q store.Query) ([]store.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%v|%v", q.Eq["nombre"], q.Eq["marca"])
	if f.existing[key] {
		return []store.Row{{"id": uint(1)}}, nil
	}
	return nil, nil
}

func (f *fakeStore) Insert(ctx context.Context, table string, rows ...store.Row) error {
	if f.insertStarted != nil {
		select {
		case f.insertStarted <- struct{}{}:
		default:
		}
	}
	if f.insertGate != nil {
		<-f.insertGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if err, ok := f.failOn[row["nombre"].(string)]; ok {
			return err
		}
		f.inserts = append(f.inserts, row)
	}
	return nil
}

func (f *fakeStore) Update(ctx context.Context, table string, data store.Row, q store.Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[data["nombre"].(string)]; ok {
		return 0, err
	}
	f.updates = append(f.updates, data)
	return 1, nil
}

func (f *fakeStore) Delete(ctx context.Context, table string, q store.Query) (int64, error) {
	return 0, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.pingErr
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func perfumes(n int) []product.Product {
	rows := make([]product.Product, n)
	for i := range rows {
		rows[i] = product.Product{
			Nombre:    fmt.Sprintf("Perfume %d", i+1),
			Marca:     "Lattafa",
			Precio:    95000,
			Categoria: "unisex",
			ML:        100,
			Estado:    "disponible",
			Activo:    true,
		}
	}
	return rows
}

func TestRunUploadsAllRows(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{BatchSize: 3, ChunkDelay: 1}, perfumes(7), 0)

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, report.Status)
	assert.Equal(t, 7, report.Succeeded)
	assert.Equal(t, 0, report.FailedRows)
	assert.Len(t, remote.inserts, 7)
}

func TestRunPreflightFailureAbortsSession(t *testing.T) {
	remote := newFakeStore()
	remote.pingErr = fmt.Errorf("connection refused")
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1}, perfumes(3), 0)

	report, err := uploader.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusFailed, report.Status)
	assert.Empty(t, remote.inserts)
}

func TestRunStopsAtFirstFailureWithoutSkipErrors(t *testing.T) {
	remote := newFakeStore()
	remote.failOn["Perfume 3"] = fmt.Errorf("duplicate key")
	uploader := NewUploader(remote, testLogger(), Options{BatchSize: 10, ChunkDelay: 1, SkipErrors: false}, perfumes(10), 0)

	report, err := uploader.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusFailed, report.Status)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.FailedRows)
	// Rows 4-10 are never attempted
	assert.Len(t, remote.inserts, 2)
}

func TestRunContinuesWithSkipErrors(t *testing.T) {
	remote := newFakeStore()
	remote.failOn["Perfume 3"] = fmt.Errorf("duplicate key")
	uploader := NewUploader(remote, testLogger(), Options{BatchSize: 4, ChunkDelay: 1, SkipErrors: true}, perfumes(10), 0)

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, report.Status)
	assert.Equal(t, 9, report.Succeeded)
	assert.Equal(t, 1, report.FailedRows)
	assert.Len(t, remote.inserts, 9)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Perfume 3", report.Failed[0].Nombre)
}

func TestRunUpdatesExistingRows(t *testing.T) {
	remote := newFakeStore()
	remote.existing["Perfume 1|Lattafa"] = true
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1, UpdateExisting: true}, perfumes(2), 0)

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Len(t, remote.updates, 1)
	assert.Len(t, remote.inserts, 1)
	// Updates never touch the QR token
	_, hasToken := remote.updates[0]["qr_token"]
	assert.False(t, hasToken)
	require.Len(t, report.Successful, 2)
	assert.True(t, report.Successful[0].Updated)
}

func TestCancelBeforeRunProcessesNothing(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1}, perfumes(5), 0)
	uploader.Cancel()

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, report.Status)
	assert.Empty(t, remote.inserts)
}

func TestPauseAndResumeKeepsCursor(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{BatchSize: 2, ChunkDelay: 1}, perfumes(4), 0)

	uploader.Pause()
	report, err := uploader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, report.Status)
	assert.Empty(t, remote.inserts)

	require.True(t, uploader.Resume())
	report, err = uploader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, report.Status)
	assert.Equal(t, 4, report.Succeeded)
	assert.Len(t, remote.inserts, 4)
}

func TestResumeOnlyAppliesToPausedSessions(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1}, perfumes(2), 0)

	// Never paused, nothing to resume
	assert.False(t, uploader.Resume())

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, report.Status)

	// Finished sessions stay finished
	assert.False(t, uploader.Resume())
	assert.Equal(t, StatusCompleted, uploader.Session().Snapshot().Status)
}

func TestResumeWhileRunningIsRejected(t *testing.T) {
	remote := newFakeStore()
	remote.insertStarted = make(chan struct{}, 1)
	remote.insertGate = make(chan struct{})
	uploader := NewUploader(remote, testLogger(), Options{BatchSize: 1, ChunkDelay: 1}, perfumes(3), 0)

	done := make(chan *Report, 1)
	go func() {
		report, _ := uploader.Run(context.Background())
		done <- report
	}()

	// First row is in flight, the session is running
	<-remote.insertStarted
	assert.False(t, uploader.Resume())
	close(remote.insertGate)

	report := <-done
	assert.Equal(t, StatusCompleted, report.Status)
	assert.Equal(t, 3, report.Succeeded)
	assert.Len(t, remote.inserts, 3)
}

func TestSessionSnapshot(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1}, perfumes(2), 3)

	_, err := uploader.Run(context.Background())
	require.NoError(t, err)

	progress := uploader.Session().Snapshot()
	assert.Equal(t, StatusCompleted, progress.Status)
	assert.Equal(t, 2, progress.Total)
	assert.Equal(t, 2, progress.Processed)
	assert.Equal(t, 3, progress.Skipped)
	assert.Equal(t, 100, progress.Percent)
}

func TestProgressElapsedInMilliseconds(t *testing.T) {
	session := NewSession("s1", 1, 0)
	session.StartTime = time.Now().Add(-2 * time.Second)

	progress := session.Snapshot()
	assert.InDelta(t, 2000, float64(progress.Elapsed), 200)
}

func TestReportJSONElapsedInMilliseconds(t *testing.T) {
	remote := newFakeStore()
	uploader := NewUploader(remote, testLogger(), Options{ChunkDelay: 1}, perfumes(1), 0)
	uploader.session.StartTime = time.Now().Add(-3 * time.Second)

	report, err := uploader.Run(context.Background())
	require.NoError(t, err)

	data, err := report.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.InDelta(t, 3000, decoded["elapsed_ms"].(float64), 500)
}
