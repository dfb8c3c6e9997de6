// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/perfumeria-backend/internal/config"
)

// Service handles cart business logic. Every mutation is followed by a
// synchronous save, so the durable store never lags the in-memory cart
// by more than the mutation in flight. Storage failures are logged and
// swallowed; the mutated cart is still returned to the caller so the
// current request keeps working.
type Service struct {
	storage Storage
	config  *config.Config
	log     *logrus.Logger
}

// NewService creates a new cart service
func NewService(storage Storage, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		storage: storage,
		config:  cfg,
		log:     log,
	}
}

// CartResponse represents a cart with its totals
type CartResponse struct {
	SessionID string `json:"session_id"`
	Items     []Item `json:"items"`
	Totals    Totals `json:"totals"`
	Version   string `json:"version"`
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Get loads the cart for the session. A missing, unreadable or expired
// entry yields a fresh empty cart; expiry also deletes the stale key.
func (s *Service) Get(ctx context.Context, sessionID string) (*Entry, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required")
	}

	key := cartKey(sessionID)

	raw, found, err := s.storage.Load(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("cart storage read failed, starting with empty cart")
		return NewEntry(s.config.Cart.TTL, s.config.Cart.Version), nil
	}
	if !found {
		return NewEntry(s.config.Cart.TTL, s.config.Cart.Version), nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("stored cart is corrupt, discarding")
		return NewEntry(s.config.Cart.TTL, s.config.Cart.Version), nil
	}

	if entry.Expired(time.Now()) {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("session_id", sessionID).Warn("failed to delete expired cart")
		}
		return NewEntry(s.config.Cart.TTL, s.config.Cart.Version), nil
	}

	if entry.Items == nil {
		entry.Items = []Item{}
	}

	return &entry, nil
}

// AddItem adds a product to the cart. If an item with the same ID is
// already present its quantity is incremented instead.
func (s *Service) AddItem(ctx context.Context, sessionID string, item Item) (*Entry, error) {
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if idx := entry.Find(item.ID); idx >= 0 {
		entry.Items[idx].Quantity++
	} else {
		item.Quantity = 1
		entry.Items = append(entry.Items, item)
	}

	s.save(ctx, sessionID, entry)
	return entry, nil
}

// RemoveItem deletes the item with the given id from the cart
func (s *Service) RemoveItem(ctx context.Context, sessionID string, itemID uint) (*Entry, error) {
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := entry.Find(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	entry.Items = append(entry.Items[:idx], entry.Items[idx+1:]...)

	s.save(ctx, sessionID, entry)
	return entry, nil
}

// IncreaseQuantity increments the quantity of the item with the given id
func (s *Service) IncreaseQuantity(ctx context.Context, sessionID string, itemID uint) (*Entry, error) {
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := entry.Find(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	entry.Items[idx].Quantity++

	s.save(ctx, sessionID, entry)
	return entry, nil
}

// DecreaseQuantity decrements the quantity of the item with the given
// id, flooring at 1. Removing the item entirely is done explicitly via
// RemoveItem.
func (s *Service) DecreaseQuantity(ctx context.Context, sessionID string, itemID uint) (*Entry, error) {
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := entry.Find(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	if entry.Items[idx].Quantity > 1 {
		entry.Items[idx].Quantity--
	}

	s.save(ctx, sessionID, entry)
	return entry, nil
}

// Clear removes the cart entirely. Used by checkout completion.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}
	if err := s.storage.Delete(ctx, cartKey(sessionID)); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("cart storage delete failed")
	}
	return nil
}

// Count returns the total quantity across all items
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return entry.CalculateTotals().TotalQuantity, nil
}

// Response builds the API representation of a cart entry
func (s *Service) Response(sessionID string, entry *Entry) *CartResponse {
	return &CartResponse{
		SessionID: sessionID,
		Items:     entry.Items,
		Totals:    entry.CalculateTotals(),
		Version:   entry.Version,
	}
}

// save serializes the entry and writes it to the durable store. The
// entry timestamp is refreshed so the TTL window restarts on every
// mutation. A storage failure is non-fatal.
func (s *Service) save(ctx context.Context, sessionID string, entry *Entry) {
	entry.Timestamp = time.Now().UnixMilli()
	entry.ExpiresIn = s.config.Cart.TTL.Milliseconds()
	entry.Version = s.config.Cart.Version

	data, err := json.Marshal(entry)
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("failed to serialize cart")
		return
	}

	if err := s.storage.Save(ctx, cartKey(sessionID), string(data), s.config.Cart.TTL); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("cart storage write failed, in-memory cart still served")
	}
}
