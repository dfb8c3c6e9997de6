// internal/store/store.go
package store

import "context"

// Row is a single record exchanged with the remote data store.
type Row map[string]any

// Query describes the options accepted by Select, Update and Delete.
// Only the features the application actually needs are modeled:
// equality filters, case-insensitive pattern search, ordering and
// range-based pagination.
type Query struct {
	Columns    []string
	Eq         map[string]any
	ILike      map[string]string
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

// RemoteStore is the generic interface to the hosted data store. The
// CSV import pipeline talks to the backend only through this
// interface, which keeps it testable against an in-memory fake.
type RemoteStore interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, rows ...Row) error
	Update(ctx context.Context, table string, data Row, q Query) (int64, error)
	Delete(ctx context.Context, table string, q Query) (int64, error)

	// Ping issues a trivial read against the store. Used as the
	// connectivity preflight before a bulk upload session starts.
	Ping(ctx context.Context) error
}
