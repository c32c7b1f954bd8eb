package store

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egazette/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s := Open(NewMemoryBackend(), logger)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestCollection_MissingIsEmpty(t *testing.T) {
	s := newTestStore(t)

	items, err := Collection[types.Order](context.Background(), s, KeyOrders)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestSaveCollection_RoundTripPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []types.Notification{
		{ID: "n1", UserID: "u1", Title: "first"},
		{ID: "n2", UserID: "u1", Title: "second"},
		{ID: "n3", UserID: "u2", Title: "third"},
	}
	require.NoError(t, SaveCollection(ctx, s, KeyNotifications, in))

	out, err := Collection[types.Notification](ctx, s, KeyNotifications)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
	}
}

func TestAddItem_AppendsAtEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, AddItem(ctx, s, KeyNotifications, types.Notification{ID: "n1"}))
	require.NoError(t, AddItem(ctx, s, KeyNotifications, types.Notification{ID: "n2"}))

	out, err := Collection[types.Notification](ctx, s, KeyNotifications)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "n2", out[1].ID)
}

func TestUpdateByID_MergesPatchAndStampsUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, SaveCollection(ctx, s, KeyOrders, []types.Order{
		{ID: "o1", UserID: "u1", Status: types.OrderStatusPending, Amount: 120},
		{ID: "o2", UserID: "u1", Status: types.OrderStatusPending, Amount: 80},
	}))

	err := s.UpdateByID(ctx, KeyOrders, "o2", map[string]any{"status": "paid"})
	require.NoError(t, err)

	out, err := Collection[types.Order](ctx, s, KeyOrders)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, types.OrderStatusPending, out[0].Status)
	assert.Equal(t, types.OrderStatusPaid, out[1].Status)
	assert.Equal(t, float64(80), out[1].Amount, "unpatched fields survive")
	assert.True(t, out[1].UpdatedAt.Equal(fixed))
}

func TestUpdateByID_MissingIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, SaveCollection(ctx, s, KeyOrders, []types.Order{
		{ID: "o1", Status: types.OrderStatusPending},
	}))

	err := s.UpdateByID(ctx, KeyOrders, "does-not-exist", map[string]any{"status": "paid"})
	require.NoError(t, err)

	out, err := Collection[types.Order](ctx, s, KeyOrders)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, types.OrderStatusPending, out[0].Status)
}

func TestFilterByUserID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, SaveCollection(ctx, s, KeyNotifications, []types.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u2"},
		{ID: "n3", UserID: "u1"},
	}))

	out, err := FilterByUserID[types.Notification](ctx, s, KeyNotifications, "u1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "n1", out[0].ID)
	assert.Equal(t, "n3", out[1].ID)

	none, err := FilterByUserID[types.Notification](ctx, s, KeyNotifications, "u9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClear_RemovesNamedCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, AddItem(ctx, s, KeyOrders, types.Order{ID: "o1"}))
	require.NoError(t, AddItem(ctx, s, KeyNotifications, types.Notification{ID: "n1"}))

	require.NoError(t, s.Clear(ctx, KeyOrders))

	orders, err := Collection[types.Order](ctx, s, KeyOrders)
	require.NoError(t, err)
	assert.Empty(t, orders)

	notifications, err := Collection[types.Notification](ctx, s, KeyNotifications)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestClear_AllWhenNoKeysGiven(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range CollectionKeys() {
		require.NoError(t, AddItem(ctx, s, key, map[string]any{"id": "x"}))
	}

	require.NoError(t, s.Clear(ctx))

	for _, key := range CollectionKeys() {
		items, err := Collection[map[string]any](ctx, s, key)
		require.NoError(t, err)
		assert.Empty(t, items, key)
	}
}
