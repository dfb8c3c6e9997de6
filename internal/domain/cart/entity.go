// internal/domain/cart/entity.go
package cart

import "time"

// Item represents a single line item in a cart. Adding a product whose
// ID already exists in the cart increments Quantity instead of
// appending a second line.
type Item struct {
	ID        uint    `json:"id"`
	Nombre    string  `json:"nombre"`
	Marca     string  `json:"marca"`
	Precio    float64 `json:"precio"`
	Quantity  int     `json:"quantity"`
	ImagenURL string  `json:"imagen_url,omitempty"`
	Categoria string  `json:"categoria,omitempty"`
}

// Entry is the serialized form of a cart as stored under a single key
// in the durable store. Timestamp is the last save time in unix
// milliseconds; ExpiresIn is the TTL in milliseconds.
type Entry struct {
	Items     []Item `json:"items"`
	Timestamp int64  `json:"timestamp"`
	ExpiresIn int64  `json:"expiresIn"`
	Version   string `json:"version"`
}

// NewEntry creates an empty cart entry with the given TTL
func NewEntry(ttl time.Duration, version string) *Entry {
	return &Entry{
		Items:     []Item{},
		Timestamp: time.Now().UnixMilli(),
		ExpiresIn: ttl.Milliseconds(),
		Version:   version,
	}
}

// Expired reports whether the entry is stale at the given time
func (e *Entry) Expired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > e.ExpiresIn
}

// Find returns the index of the item with the given id, or -1
func (e *Entry) Find(id uint) int {
	for i := range e.Items {
		if e.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no items
func (e *Entry) IsEmpty() bool {
	return len(e.Items) == 0
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	SubTotal      float64 `json:"sub_total"`
}

// CalculateTotals computes the totals over the current items
func (e *Entry) CalculateTotals() Totals {
	var totals Totals

	totals.ItemCount = len(e.Items)
	for _, item := range e.Items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Precio * float64(item.Quantity)
	}

	return totals
}
