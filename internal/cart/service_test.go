package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/catalog"
	"github.com/noah-isme/backend-grocer/internal/coupon"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

type fakeProfile struct {
	wallet  int64
	coupons []coupon.Coupon
}

func (f *fakeProfile) Wallet(context.Context, string) (int64, error) {
	return f.wallet, nil
}

func (f *fakeProfile) Coupons(context.Context, string) ([]coupon.Coupon, error) {
	return f.coupons, nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func newTestService(t *testing.T, profile *fakeProfile) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &Service{
		Store:   &Store{R: client, TTL: time.Hour},
		Profile: profile,
		Catalog: &fakeCatalog{products: map[string]catalog.Product{
			"prod-milk": {ID: "prod-milk", Name: "Leche Entera 1L", UnitPriceCents: 3500},
			"prod-rice": {ID: "prod-rice", Name: "Arroz Premium", UnitPriceCents: 2800, CompareAtCents: 3200},
			"prod-meat": {ID: "prod-meat", Name: "Carne Molida", UnitPriceCents: 18000, Bulk: true, Unit: "kg"},
		}},
		PointValue: 10,
	}
}

func TestCheckoutQuotePipeline(t *testing.T) {
	profile := &fakeProfile{
		wallet: 500,
		coupons: []coupon.Coupon{
			{ID: "c1", Code: "ALEX10", Kind: coupon.KindCode, Value: 1000},
		},
	}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	view, err = svc.AddItem(ctx, cartID, "prod-milk", 2)
	require.NoError(t, err)
	require.Equal(t, int64(7000), view.Pricing.Subtotal)

	view, err = svc.AddBulkItem(ctx, cartID, BulkInput{
		ProductID: "prod-meat", Qty: 0.278, Unit: UnitWeight, TotalPrice: 5000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(12000), view.Pricing.Subtotal)

	view, err = svc.ApplyCoupon(ctx, cartID, "alex10")
	require.NoError(t, err)
	require.Equal(t, int64(1000), view.Pricing.CouponDiscount)
	require.Equal(t, int64(500), view.MaxPoints)

	view, err = svc.SetPoints(ctx, cartID, 300)
	require.NoError(t, err)
	require.Equal(t, int64(3000), view.Pricing.PointsDeduction)
	require.Equal(t, int64(8000), view.Pricing.FinalTotal)
}

func TestApplyCouponIdempotent(t *testing.T) {
	profile := &fakeProfile{coupons: []coupon.Coupon{
		{ID: "c1", Code: "SAVE5", Kind: coupon.KindCode, Value: 500},
	}}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	_, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)

	first, err := svc.ApplyCoupon(ctx, cartID, "SAVE5")
	require.NoError(t, err)
	again, err := svc.ApplyCoupon(ctx, cartID, "save5")
	require.NoError(t, err)
	require.Equal(t, first.Pricing.CouponDiscount, again.Pricing.CouponDiscount)
	require.Equal(t, first.Cart.Applied, again.Cart.Applied)
}

func TestApplyCouponNotFoundLeavesState(t *testing.T) {
	profile := &fakeProfile{coupons: []coupon.Coupon{
		{ID: "c1", Code: "SAVE5", Kind: coupon.KindCode, Value: 500},
	}}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	_, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(ctx, cartID, "SAVE5")
	require.NoError(t, err)

	_, err = svc.ApplyCoupon(ctx, cartID, "NOPE")
	require.ErrorIs(t, err, coupon.ErrNotFound)

	view, err = svc.Get(ctx, cartID)
	require.NoError(t, err)
	require.NotNil(t, view.Cart.Applied)
	require.Equal(t, "SAVE5", view.Cart.Applied.Code)
}

func TestProductCouponsStackAutomatically(t *testing.T) {
	profile := &fakeProfile{coupons: []coupon.Coupon{
		{ID: "p1", Code: "X1", Kind: coupon.KindProduct, Value: 2200, ProductID: "prod-rice", Label: "Arroz"},
		{ID: "p2", Code: "X2", Kind: coupon.KindProduct, Value: 2200, ProductID: "prod-rice", Label: "Arroz"},
		{ID: "p3", Code: "X3", Kind: coupon.KindProduct, Value: 900, ProductID: "prod-missing", Label: "Otro"},
	}}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)

	view, err = svc.AddItem(ctx, view.Cart.ID, "prod-rice", 3)
	require.NoError(t, err)
	require.Equal(t, int64(4400), view.Pricing.ProductCouponsDiscount)
	require.Equal(t, int64(8400-4400), view.Pricing.FinalTotal)
}

func TestPointsReclampAfterCouponShrinksRemaining(t *testing.T) {
	profile := &fakeProfile{
		wallet: 10000,
		coupons: []coupon.Coupon{
			{ID: "c1", Code: "BIG", Kind: coupon.KindCode, Value: 6000},
		},
	}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	view, err = svc.AddItem(ctx, cartID, "prod-milk", 2)
	require.NoError(t, err)
	require.Equal(t, int64(700), view.MaxPoints)

	view, err = svc.SetPoints(ctx, cartID, 700)
	require.NoError(t, err)
	require.Equal(t, int64(0), view.Pricing.FinalTotal)

	view, err = svc.ApplyCoupon(ctx, cartID, "BIG")
	require.NoError(t, err)
	require.Equal(t, int64(100), view.MaxPoints)
	require.Equal(t, int64(100), view.Cart.PointsToUse)
	require.Equal(t, int64(0), view.Pricing.FinalTotal)
}

func TestSetPointsClampsSilently(t *testing.T) {
	profile := &fakeProfile{wallet: 50}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	_, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)

	view, err = svc.SetPoints(ctx, cartID, 9999)
	require.NoError(t, err)
	require.Equal(t, int64(50), view.Cart.PointsToUse)
	require.Equal(t, int64(500), view.Pricing.PointsDeduction)
}

func TestPointsRedeemedCounterTracksIncreases(t *testing.T) {
	obs.MustRegisterDomainMetrics("grocer_test", prometheus.NewRegistry())

	svc := newTestService(t, &fakeProfile{wallet: 1000})
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	_, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)

	before := testutil.ToFloat64(obs.PointsRedeemedTotal)

	_, err = svc.SetPoints(ctx, cartID, 100)
	require.NoError(t, err)
	_, err = svc.SetPoints(ctx, cartID, 300)
	require.NoError(t, err)
	// moving the slider back down records nothing
	_, err = svc.SetPoints(ctx, cartID, 200)
	require.NoError(t, err)

	require.Equal(t, float64(300), testutil.ToFloat64(obs.PointsRedeemedTotal)-before)
}

func TestAddItemRejectsBulkProduct(t *testing.T) {
	svc := newTestService(t, &fakeProfile{})
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, view.Cart.ID, "prod-meat", 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdjustQtyRemovesAtZero(t *testing.T) {
	svc := newTestService(t, &fakeProfile{})
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	view, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)
	entryID := view.Cart.Entries[0].ID

	view, err = svc.AdjustQty(ctx, cartID, entryID, -1)
	require.NoError(t, err)
	require.Empty(t, view.Cart.Entries)
	require.Equal(t, int64(0), view.Pricing.Subtotal)

	// removing again is a no-op
	view, err = svc.RemoveEntry(ctx, cartID, entryID)
	require.NoError(t, err)
	require.Empty(t, view.Cart.Entries)
}

func TestRevokedCouponDropsOnRequote(t *testing.T) {
	profile := &fakeProfile{coupons: []coupon.Coupon{
		{ID: "c1", Code: "SAVE5", Kind: coupon.KindCode, Value: 500},
	}}
	svc := newTestService(t, profile)
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	_, err = svc.AddItem(ctx, cartID, "prod-milk", 1)
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(ctx, cartID, "SAVE5")
	require.NoError(t, err)

	profile.coupons = nil

	view, err = svc.Get(ctx, cartID)
	require.NoError(t, err)
	require.Nil(t, view.Cart.Applied)
	require.Equal(t, int64(0), view.Pricing.CouponDiscount)
}

func TestEnsureCartReusesOwnerCart(t *testing.T) {
	svc := newTestService(t, &fakeProfile{})
	ctx := context.Background()

	first, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	second, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	require.Equal(t, first.Cart.ID, second.Cart.ID)

	_, err = svc.EnsureCart(ctx, "", "")
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestMergeEntriesAccumulatesUnitLines(t *testing.T) {
	svc := newTestService(t, &fakeProfile{})
	ctx := context.Background()

	view, err := svc.EnsureCart(ctx, "user-1", "")
	require.NoError(t, err)
	cartID := view.Cart.ID

	view, err = svc.AddItem(ctx, cartID, "prod-milk", 2)
	require.NoError(t, err)

	snapshot := []Entry{
		{ID: "old-1", ProductID: "prod-milk", Name: "Leche Entera 1L", UnitPrice: 3500, Qty: 1},
		{ID: "old-2", ProductID: "prod-meat", Name: "Carne Molida", UnitPrice: 18000, Bulk: true, BulkQty: 0.5, BulkUnit: UnitWeight, TotalPrice: 9000},
	}
	view, err = svc.MergeEntries(ctx, cartID, snapshot)
	require.NoError(t, err)
	require.Len(t, view.Cart.Entries, 2)
	require.Equal(t, int64(3), view.Cart.Entries[0].Qty)
	require.Equal(t, int64(3500*3+9000), view.Pricing.Subtotal)

	view, err = svc.ReplaceEntries(ctx, cartID, snapshot[:1])
	require.NoError(t, err)
	require.Len(t, view.Cart.Entries, 1)
	require.Equal(t, int64(3500), view.Pricing.Subtotal)
}
