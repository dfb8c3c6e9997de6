package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfumeria-backend/internal/config"
)

// memStorage is an in-memory Storage for tests
type memStorage struct {
	data     map[string]string
	failing  bool
	saveCall int
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Load(ctx context.Context, key string) (string, bool, error) {
	if m.failing {
		return "", false, fmt.Errorf("storage unavailable")
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStorage) Save(ctx context.Context, key, value string, ttl time.Duration) error {
	m.saveCall++
	if m.failing {
		return fmt.Errorf("storage unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	if m.failing {
		return fmt.Errorf("storage unavailable")
	}
	delete(m.data, key)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Cart: config.CartConfig{
			TTL:     24 * time.Hour,
			Version: "1.0",
		},
	}
}

func testService(storage Storage) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(storage, testConfig(), log)
}

func sampleItem(id uint, nombre string) Item {
	return Item{
		ID:        id,
		Nombre:    nombre,
		Marca:     "Dior",
		Precio:    180000,
		Categoria: "para-ellos",
	}
}

func TestGetReturnsEmptyCartWhenAbsent(t *testing.T) {
	svc := testService(newMemStorage())

	entry, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, entry.IsEmpty())
	assert.Equal(t, "1.0", entry.Version)
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	svc := testService(newMemStorage())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	entry, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)

	require.Len(t, entry.Items, 1)
	assert.Equal(t, 2, entry.Items[0].Quantity)
}

func TestRoundTrip(t *testing.T) {
	storage := newMemStorage()
	svc := testService(storage)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", sampleItem(2, "Bleu de Chanel"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", sampleItem(2, "Bleu de Chanel"))
	require.NoError(t, err)

	// Fresh load, as a new page would do
	entry, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, uint(1), entry.Items[0].ID)
	assert.Equal(t, 1, entry.Items[0].Quantity)
	assert.Equal(t, uint(2), entry.Items[1].ID)
	assert.Equal(t, 2, entry.Items[1].Quantity)
}

func TestExpiredCartIsDiscarded(t *testing.T) {
	storage := newMemStorage()
	svc := testService(storage)
	ctx := context.Background()

	ttl := testConfig().Cart.TTL
	stale := Entry{
		Items:     []Item{sampleItem(1, "Sauvage")},
		Timestamp: time.Now().Add(-ttl - time.Second).UnixMilli(),
		ExpiresIn: ttl.Milliseconds(),
		Version:   "1.0",
	}
	data, err := json.Marshal(&stale)
	require.NoError(t, err)
	storage.data[cartKey("s1")] = string(data)

	entry, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, entry.IsEmpty())

	// Expiry also clears the stale key
	_, present := storage.data[cartKey("s1")]
	assert.False(t, present)
}

func TestCorruptCartIsDiscarded(t *testing.T) {
	storage := newMemStorage()
	svc := testService(storage)

	storage.data[cartKey("s1")] = "{not json"

	entry, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, entry.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	svc := testService(newMemStorage())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", sampleItem(2, "Bleu de Chanel"))
	require.NoError(t, err)

	entry, err := svc.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, entry.Items, 1)
	assert.Equal(t, uint(2), entry.Items[0].ID)

	_, err = svc.RemoveItem(ctx, "s1", 99)
	assert.Error(t, err)
}

func TestDecreaseQuantityFloorsAtOne(t *testing.T) {
	svc := testService(newMemStorage())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	_, err = svc.IncreaseQuantity(ctx, "s1", 1)
	require.NoError(t, err)

	entry, err := svc.DecreaseQuantity(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Items[0].Quantity)

	// Already at the floor, nothing changes and the item stays
	entry, err = svc.DecreaseQuantity(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, entry.Items, 1)
	assert.Equal(t, 1, entry.Items[0].Quantity)
}

func TestStorageFailureIsNonFatal(t *testing.T) {
	storage := newMemStorage()
	storage.failing = true
	svc := testService(storage)

	entry, err := svc.AddItem(context.Background(), "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	require.Len(t, entry.Items, 1)
	assert.Equal(t, 1, entry.Items[0].Quantity)
}

func TestTotals(t *testing.T) {
	svc := testService(newMemStorage())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", sampleItem(1, "Sauvage"))
	require.NoError(t, err)

	count, err := svc.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entry, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	totals := entry.CalculateTotals()
	assert.Equal(t, 1, totals.ItemCount)
	assert.Equal(t, 2, totals.TotalQuantity)
	assert.Equal(t, 360000.0, totals.SubTotal)
}
