// internal/domain/importer/uploader.go
package importer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
	"github.com/your-org/perfumeria-backend/internal/store"
)

const productsTable = "productos"

// Options configures one upload run
type Options struct {
	BatchSize      int
	SkipErrors     bool
	UpdateExisting bool
	ChunkDelay     time.Duration
}

// Uploader pushes normalized products to the remote store in
// bounded-size batches, sequential chunk by chunk so concurrent load on
// the store stays bounded. Cancellation and pause are cooperative:
// both flags are only checked between rows and between chunks, so a
// row already in flight always completes.
type Uploader struct {
	store   store.RemoteStore
	log     *logrus.Logger
	opts    Options
	session *Session

	rows   []product.Product
	cursor int

	cancelled atomic.Bool
	paused    atomic.Bool
}

// NewUploader creates an uploader for one batch of validated products
func NewUploader(remote store.RemoteStore, log *logrus.Logger, opts Options, rows []product.Product, skipped int) *Uploader {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.ChunkDelay <= 0 {
		opts.ChunkDelay = 200 * time.Millisecond
	}

	return &Uploader{
		store:   remote,
		log:     log,
		opts:    opts,
		rows:    rows,
		session: NewSession(uuid.New().String(), len(rows), skipped),
	}
}

// Session returns the session tracking this upload
func (u *Uploader) Session() *Session {
	return u.session
}

// Cancel stops the run at the next check point. Completed rows are not
// rolled back; partial completion is a valid terminal state.
func (u *Uploader) Cancel() {
	u.cancelled.Store(true)
}

// Pause stops the run at the next check point while keeping the cursor,
// so a later Run call continues with the remaining rows.
func (u *Uploader) Pause() {
	u.paused.Store(true)
}

// Resume rearms a paused uploader for another Run call. Only a paused
// session transitions; a session still running or already finished is
// left untouched and Resume reports false, which keeps a single Run
// loop per session.
func (u *Uploader) Resume() bool {
	if !u.session.transition(StatusPaused, StatusRunning) {
		return false
	}
	u.paused.Store(false)
	return true
}

// Run processes rows from the current cursor until exhaustion, pause or
// cancellation. Before any row is attempted the remote store is pinged;
// an unreachable store aborts the whole session. With SkipErrors false,
// the first row failure aborts the session and is returned as the error.
func (u *Uploader) Run(ctx context.Context) (*Report, error) {
	// Preflight: do not start a session against an unreachable store
	if err := u.store.Ping(ctx); err != nil {
		u.session.setStatus(StatusFailed)
		return u.buildReport(), fmt.Errorf("upload preflight failed: %w", err)
	}

	u.session.setStatus(StatusRunning)

	for u.cursor < len(u.rows) {
		if u.checkStop() {
			return u.buildReport(), nil
		}

		end := u.cursor + u.opts.BatchSize
		if end > len(u.rows) {
			end = len(u.rows)
		}

		for u.cursor < end {
			if u.checkStop() {
				return u.buildReport(), nil
			}

			row := u.rows[u.cursor]
			u.cursor++

			if err := u.uploadRow(ctx, row); err != nil {
				u.session.recordFailure(Outcome{
					Nombre:  row.Nombre,
					Marca:   row.Marca,
					Message: err.Error(),
				})
				u.log.WithError(err).WithFields(logrus.Fields{
					"nombre": row.Nombre,
					"marca":  row.Marca,
				}).Warn("product upload failed")

				if !u.opts.SkipErrors {
					u.session.setStatus(StatusFailed)
					return u.buildReport(), fmt.Errorf("upload aborted at %s (%s): %w", row.Nombre, row.Marca, err)
				}
			}
		}

		// Short pause between chunks
		if u.cursor < len(u.rows) {
			select {
			case <-ctx.Done():
				u.session.setStatus(StatusCancelled)
				return u.buildReport(), ctx.Err()
			case <-time.After(u.opts.ChunkDelay):
			}
		}
	}

	u.session.setStatus(StatusCompleted)
	return u.buildReport(), nil
}

// checkStop handles the cooperative pause/cancel flags. Returns true
// when the loop must exit now.
func (u *Uploader) checkStop() bool {
	if u.cancelled.Load() {
		u.session.setStatus(StatusCancelled)
		return true
	}
	if u.paused.Load() {
		u.session.setStatus(StatusPaused)
		return true
	}
	return false
}

// uploadRow inserts one product, or updates the existing row matching
// on (nombre, marca) when UpdateExisting is set.
func (u *Uploader) uploadRow(ctx context.Context, p product.Product) error {
	data := rowFromProduct(p)

	if u.opts.UpdateExisting {
		existing, err := u.store.Select(ctx, productsTable, store.Query{
			Columns: []string{"id"},
			Eq:      map[string]any{"nombre": p.Nombre, "marca": p.Marca},
			Limit:   1,
		})
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}

		if len(existing) > 0 {
			// Keep the existing QR token on update
			delete(data, "qr_token")
			if _, err := u.store.Update(ctx, productsTable, data, store.Query{
				Eq: map[string]any{"nombre": p.Nombre, "marca": p.Marca},
			}); err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			u.session.recordSuccess(Outcome{
				Nombre:  p.Nombre,
				Marca:   p.Marca,
				Message: "updated",
				Updated: true,
			})
			return nil
		}
	}

	if err := u.store.Insert(ctx, productsTable, data); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	u.session.recordSuccess(Outcome{
		Nombre:  p.Nombre,
		Marca:   p.Marca,
		Message: "created",
	})
	return nil
}

// rowFromProduct builds the remote-store row for a normalized product.
// New rows get a fresh QR token so verification works immediately.
func rowFromProduct(p product.Product) store.Row {
	qrToken := p.QRToken
	if qrToken == "" {
		qrToken = uuid.New().String()
	}

	row := store.Row{
		"nombre":      p.Nombre,
		"marca":       p.Marca,
		"precio":      p.Precio,
		"categoria":   p.Categoria,
		"descripcion": p.Descripcion,
		"notas":       p.Notas,
		"imagen_url":  p.ImagenURL,
		"ml":          p.ML,
		"stock":       p.Stock,
		"estado":      p.Estado,
		"luxury":      p.Luxury,
		"activo":      p.Activo,
		"qr_token":    qrToken,
	}
	if p.Subcategoria != nil {
		row["subcategoria"] = *p.Subcategoria
	}
	if p.Descuento != nil {
		row["descuento"] = *p.Descuento
	}
	return row
}
