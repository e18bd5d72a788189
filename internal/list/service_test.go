package list

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/cart"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{Store: &Store{R: client}}
}

func sampleCart() cart.Cart {
	return cart.Cart{
		ID: "cart-1",
		Entries: []cart.Entry{
			{ID: "e1", ProductID: "prod-milk", Name: "Leche Entera 1L", UnitPrice: 3500, Qty: 2},
			{ID: "e2", ProductID: "prod-meat", Name: "Carne Molida", UnitPrice: 18000, Bulk: true, BulkQty: 0.278, BulkUnit: cart.UnitWeight, TotalPrice: 5000},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "user-1", "Despensa Semanal", sampleCart())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, "Despensa Semanal", saved.Name)
	require.Equal(t, 2, saved.ItemCount())

	loaded, err := svc.Load(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.Entries, loaded.Entries)
}

func TestSaveValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "user-1", "   ", sampleCart())
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Save(ctx, "user-1", "Despensa", cart.Cart{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSnapshotDetachedFromSource(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c := sampleCart()
	saved, err := svc.Save(ctx, "user-1", "Despensa", c)
	require.NoError(t, err)

	c.Entries[0].Qty = 99

	loaded, err := svc.Load(ctx, "user-1", saved.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), loaded.Entries[0].Qty)
}

func TestListSortedNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }
	older, err := svc.Save(ctx, "user-1", "Antigua", sampleCart())
	require.NoError(t, err)

	svc.Now = func() time.Time { return base.Add(time.Hour) }
	newer, err := svc.Save(ctx, "user-1", "Reciente", sampleCart())
	require.NoError(t, err)

	lists, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	require.Equal(t, newer.ID, lists[0].ID)
	require.Equal(t, older.ID, lists[1].ID)
}

func TestDeleteIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "user-1", "Despensa", sampleCart())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", saved.ID))
	require.NoError(t, svc.Delete(ctx, "user-1", saved.ID))

	_, err = svc.Load(ctx, "user-1", saved.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOwnersIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "user-1", "Despensa", sampleCart())
	require.NoError(t, err)

	_, err = svc.Load(ctx, "user-2", saved.ID)
	require.ErrorIs(t, err, ErrNotFound)

	lists, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, lists)
}
