package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbuilds/storefront/internal/catalog"
	"github.com/redbuilds/storefront/internal/store"
)

type mockStore struct {
	m    sync.RWMutex
	data map[string][]byte
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Put(_ context.Context, key string, value []byte) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) storedCart(t *testing.T) []Line {
	t.Helper()
	m.m.RLock()
	defer m.m.RUnlock()
	raw, ok := m.data[store.KeyCart]
	require.True(t, ok, "cart was never persisted")
	var lines []Line
	require.NoError(t, json.Unmarshal(raw, &lines))
	return lines
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testEngine(t *testing.T) (*Engine, *mockStore) {
	t.Helper()
	st := newMockStore()
	return NewEngine(st, testLogger()), st
}

var ssd = catalog.Product{ID: 1, Title: "SSD", PriceMinor: 109950, Image: "https://x/ssd.jpg"}

func TestAddItem_SameProductTwiceMergesQuantity(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.AddItem(ctx, ssd))

	items := e.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItem_PriceIsSnapshottedAtAddTime(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))

	repriced := ssd
	repriced.PriceMinor = 999999
	require.NoError(t, e.AddItem(ctx, repriced))

	items := e.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, int64(109950), items[0].PriceMinor)
}

func TestUpdateQuantity_ZeroOrNegativeRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		e, _ := testEngine(t)
		ctx := context.Background()

		require.NoError(t, e.AddItem(ctx, ssd))
		require.NoError(t, e.UpdateQuantity(ctx, ssd.ID, quantity))

		assert.Empty(t, e.Snapshot())
	}
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.UpdateQuantity(ctx, ssd.ID, 5))

	items := e.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateQuantity_UnknownIDIsNoOp(t *testing.T) {
	e, st := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.UpdateQuantity(ctx, 42, 3))

	assert.Empty(t, e.Snapshot())
	_, ok := st.data[store.KeyCart]
	assert.False(t, ok, "no-op must not persist")
}

func TestRemoveItem_UnknownIDDoesNotFail(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.RemoveItem(ctx, 42))

	assert.Len(t, e.Snapshot(), 1)
}

func TestTotal(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	a := catalog.Product{ID: 1, Title: "a", PriceMinor: 1000}
	b := catalog.Product{ID: 2, Title: "b", PriceMinor: 500}

	require.NoError(t, e.AddItem(ctx, a))
	require.NoError(t, e.AddItem(ctx, a))
	require.NoError(t, e.AddItem(ctx, b))
	require.NoError(t, e.UpdateQuantity(ctx, b.ID, 3))

	assert.Equal(t, int64(3500), e.Total())
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	e, _ := testEngine(t)
	assert.Equal(t, int64(0), e.Total())
}

func TestMutations_WriteThrough(t *testing.T) {
	e, st := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))
	assert.Equal(t, e.Snapshot(), st.storedCart(t))

	require.NoError(t, e.UpdateQuantity(ctx, ssd.ID, 4))
	assert.Equal(t, e.Snapshot(), st.storedCart(t))

	require.NoError(t, e.RemoveItem(ctx, ssd.ID))
	assert.Equal(t, []Line{}, st.storedCart(t))
}

func TestClear_PersistsEmptyCart(t *testing.T) {
	e, st := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.Clear(ctx))

	assert.Empty(t, e.Snapshot())
	assert.Equal(t, []Line{}, st.storedCart(t))
}

func TestLoad_RestoresPersistedCart(t *testing.T) {
	st := newMockStore()
	st.data[store.KeyCart] = []byte(`[{"id":1,"title":"SSD","price":109950,"image":"","quantity":2}]`)

	e := NewEngine(st, testLogger())
	e.Load(context.Background())

	items := e.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(109950), items[0].PriceMinor)
}

func TestLoad_CorruptDataLoadsEmpty(t *testing.T) {
	st := newMockStore()
	st.data[store.KeyCart] = []byte(`{definitely not json`)

	e := NewEngine(st, testLogger())
	e.Load(context.Background())

	assert.Empty(t, e.Snapshot())
}

func TestLoad_DropsNonPositiveQuantities(t *testing.T) {
	st := newMockStore()
	st.data[store.KeyCart] = []byte(`[{"id":1,"quantity":0},{"id":2,"quantity":3}]`)

	e := NewEngine(st, testLogger())
	e.Load(context.Background())

	items := e.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestLoad_StoreErrorLoadsEmpty(t *testing.T) {
	st := newMockStore()
	st.err = errors.New("disk on fire")

	e := NewEngine(st, testLogger())
	e.Load(context.Background())

	assert.Empty(t, e.Snapshot())
}

func TestSubscribe_NotifiedWithItemCount(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	var counts []int
	e.Subscribe(func(itemCount int) { counts = append(counts, itemCount) })

	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.AddItem(ctx, ssd))
	require.NoError(t, e.Clear(ctx))

	assert.Equal(t, []int{1, 2, 0}, counts)
}

func TestAddItem_PersistFailureSurfaces(t *testing.T) {
	e, st := testEngine(t)
	st.err = errors.New("disk full")

	err := e.AddItem(context.Background(), ssd)
	assert.Error(t, err)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AddItem(ctx, ssd))

	snap := e.Snapshot()
	snap[0].Quantity = 99

	assert.Equal(t, 1, e.Snapshot()[0].Quantity)
}
