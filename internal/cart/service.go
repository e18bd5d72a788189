package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grocer/internal/catalog"
	"github.com/noah-isme/backend-grocer/internal/coupon"
	"github.com/noah-isme/backend-grocer/internal/obs"
	"github.com/noah-isme/backend-grocer/internal/points"
	"github.com/noah-isme/backend-grocer/internal/pricing"
)

// ProfileSource supplies the read-only user inputs of the pricing pipeline.
type ProfileSource interface {
	Wallet(ctx context.Context, userID string) (int64, error)
	Coupons(ctx context.Context, userID string) ([]coupon.Coupon, error)
}

// CatalogSource resolves product reference data for new cart lines.
type CatalogSource interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// View is the engine's response to every cart operation: the stored document
// plus a freshly recomputed pricing result. Totals are never cached across
// an input change.
type View struct {
	Cart      Cart           `json:"cart"`
	Pricing   pricing.Result `json:"pricing"`
	MaxPoints int64          `json:"maxPoints"`
}

// BulkInput describes a weight or piece-selected line. TotalPrice was
// computed at selection time and is authoritative.
type BulkInput struct {
	ProductID  string
	Qty        float64
	Unit       Unit
	TotalPrice int64
	Notes      string
}

// Service runs the aggregate -> resolve coupons -> cap points -> compose
// pipeline over Redis-backed cart documents. Every mutation persists the
// document and recomputes the quote before returning.
type Service struct {
	Store      *Store
	Profile    ProfileSource
	Catalog    CatalogSource
	Match      coupon.Matcher
	PointValue int64
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) pointValue() int64 {
	if s == nil || s.PointValue <= 0 {
		return 10
	}
	return s.PointValue
}

// EnsureCart loads the owner's active cart or creates an empty one.
func (s *Service) EnsureCart(ctx context.Context, userID, anonID string) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	if userID == "" && anonID == "" {
		return View{}, fmt.Errorf("cart owner required: %w", ErrInvalidInput)
	}
	id, err := s.Store.FindByOwner(ctx, userID, anonID)
	if err == nil {
		c, err := s.Store.Get(ctx, id)
		if err == nil {
			return s.finalize(ctx, &c)
		}
		if !errors.Is(err, ErrNotFound) {
			return View{}, err
		}
	} else if !errors.Is(err, ErrNotFound) {
		return View{}, err
	}
	now := s.now()
	c := Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		AnonID:    anonID,
		Entries:   []Entry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.finalize(ctx, &c)
}

// Get returns the cart with a fresh quote. Reading also refreshes the TTL
// and re-clamps the stored point selection against the current cap.
func (s *Service) Get(ctx context.Context, cartID string) (View, error) {
	return s.mutate(ctx, cartID, func(*Cart) error { return nil })
}

// AddItem inserts or increments a unit-counted line.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, qty int64) (View, error) {
	if qty <= 0 {
		return View{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, cartID, func(c *Cart) error {
		for i := range c.Entries {
			if !c.Entries[i].Bulk && c.Entries[i].ProductID == productID {
				c.Entries[i].Qty += qty
				return nil
			}
		}
		if s.Catalog == nil {
			return errors.New("catalog source not configured")
		}
		product, err := s.Catalog.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("unknown product: %w", ErrInvalidInput)
			}
			return err
		}
		if product.Bulk {
			return fmt.Errorf("bulk product requires a bulk line: %w", ErrInvalidInput)
		}
		c.Entries = append(c.Entries, Entry{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			UnitPrice: product.UnitPriceCents,
			CompareAt: product.CompareAtCents,
			Qty:       qty,
		})
		return nil
	})
}

// AddBulkItem appends a weight or piece-selected line with its authoritative total.
func (s *Service) AddBulkItem(ctx context.Context, cartID string, input BulkInput) (View, error) {
	if input.Qty <= 0 {
		return View{}, fmt.Errorf("bulk quantity must be positive: %w", ErrInvalidInput)
	}
	if input.TotalPrice < 0 {
		return View{}, fmt.Errorf("total price must not be negative: %w", ErrInvalidInput)
	}
	if input.Unit != UnitWeight && input.Unit != UnitPiece {
		return View{}, fmt.Errorf("unknown bulk unit: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, cartID, func(c *Cart) error {
		if s.Catalog == nil {
			return errors.New("catalog source not configured")
		}
		product, err := s.Catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("unknown product: %w", ErrInvalidInput)
			}
			return err
		}
		c.Entries = append(c.Entries, Entry{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			Name:       product.Name,
			Image:      product.Image,
			UnitPrice:  product.UnitPriceCents,
			Bulk:       true,
			BulkQty:    input.Qty,
			BulkUnit:   input.Unit,
			TotalPrice: input.TotalPrice,
			Notes:      strings.TrimSpace(input.Notes),
		})
		return nil
	})
}

// SetQty sets the absolute quantity of a unit-counted line.
func (s *Service) SetQty(ctx context.Context, cartID, entryID string, qty int64) (View, error) {
	if qty <= 0 {
		return View{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	return s.mutate(ctx, cartID, func(c *Cart) error {
		for i := range c.Entries {
			if c.Entries[i].ID == entryID {
				if c.Entries[i].Bulk {
					return fmt.Errorf("bulk lines carry a fixed amount: %w", ErrInvalidInput)
				}
				c.Entries[i].Qty = qty
				return nil
			}
		}
		return ErrNotFound
	})
}

// AdjustQty applies a signed delta to a unit-counted line. Dropping to zero
// or below removes the line.
func (s *Service) AdjustQty(ctx context.Context, cartID, entryID string, delta int64) (View, error) {
	if delta == 0 {
		return s.Get(ctx, cartID)
	}
	return s.mutate(ctx, cartID, func(c *Cart) error {
		for i := range c.Entries {
			if c.Entries[i].ID != entryID {
				continue
			}
			if c.Entries[i].Bulk {
				return fmt.Errorf("bulk lines carry a fixed amount: %w", ErrInvalidInput)
			}
			next := c.Entries[i].Qty + delta
			if next <= 0 {
				c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			} else {
				c.Entries[i].Qty = next
			}
			return nil
		}
		return ErrNotFound
	})
}

// RemoveEntry deletes a line. Removing an absent line is a no-op.
func (s *Service) RemoveEntry(ctx context.Context, cartID, entryID string) (View, error) {
	return s.mutate(ctx, cartID, func(c *Cart) error {
		for i := range c.Entries {
			if c.Entries[i].ID == entryID {
				c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// ApplyCoupon resolves a typed or selected code against the owner's coupons
// and attaches it as the sole active code coupon. Re-applying the current
// code is a no-op. An unknown code fails with coupon.ErrNotFound and leaves
// the previously applied coupon untouched.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (View, error) {
	view, err := s.mutate(ctx, cartID, func(c *Cart) error {
		normalized := coupon.Normalize(code)
		if c.Applied != nil && c.Applied.Code == normalized {
			return nil
		}
		available, err := s.ownerCoupons(ctx, *c)
		if err != nil {
			return err
		}
		found, err := coupon.FindCode(available, normalized)
		if err != nil {
			return err
		}
		c.Applied = &coupon.Applied{Code: coupon.Normalize(found.Code), Discount: found.Value}
		return nil
	})
	if obs.CouponApplyTotal != nil {
		result := "applied"
		if err != nil {
			result = "rejected"
			if errors.Is(err, coupon.ErrNotFound) {
				result = "not_found"
			}
		}
		obs.CouponApplyTotal.WithLabelValues(result).Inc()
	}
	return view, err
}

// ClearCoupon removes the applied code coupon. The explicit clear signal is
// the only removal path; it also resets the code input client-side.
func (s *Service) ClearCoupon(ctx context.Context, cartID string) (View, error) {
	return s.mutate(ctx, cartID, func(c *Cart) error {
		c.Applied = nil
		return nil
	})
}

// SetPoints stores the slider selection. Values outside [0, maxPoints] are
// clamped silently during the quote rather than rejected.
func (s *Service) SetPoints(ctx context.Context, cartID string, pts int64) (View, error) {
	var prev int64
	view, err := s.mutate(ctx, cartID, func(c *Cart) error {
		prev = c.PointsToUse
		if pts < 0 {
			pts = 0
		}
		c.PointsToUse = pts
		return nil
	})
	// count only the committed increase so the counter tracks points, not
	// slider traffic
	if err == nil && obs.PointsRedeemedTotal != nil {
		if delta := view.Cart.PointsToUse - prev; delta > 0 {
			obs.PointsRedeemedTotal.Add(float64(delta))
		}
	}
	return view, err
}

// ReplaceEntries swaps the cart contents for a snapshot (list load, replace mode).
func (s *Service) ReplaceEntries(ctx context.Context, cartID string, entries []Entry) (View, error) {
	return s.mutate(ctx, cartID, func(c *Cart) error {
		c.Entries = cloneEntries(entries)
		return nil
	})
}

// MergeEntries folds a snapshot into the cart (list load, merge mode): unit
// lines for the same product accumulate, bulk lines always append.
func (s *Service) MergeEntries(ctx context.Context, cartID string, entries []Entry) (View, error) {
	return s.mutate(ctx, cartID, func(c *Cart) error {
		for _, e := range cloneEntries(entries) {
			if !e.Bulk {
				merged := false
				for i := range c.Entries {
					if !c.Entries[i].Bulk && c.Entries[i].ProductID == e.ProductID {
						c.Entries[i].Qty += e.Qty
						merged = true
						break
					}
				}
				if merged {
					continue
				}
			}
			e.ID = uuid.NewString()
			c.Entries = append(c.Entries, e)
		}
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, cartID string, fn func(*Cart) error) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	if err := fn(&c); err != nil {
		return View{}, err
	}
	return s.finalize(ctx, &c)
}

// finalize recomputes the quote and persists the document. The stored
// PointsToUse is re-clamped first so state never disagrees with the cap.
func (s *Service) finalize(ctx context.Context, c *Cart) (View, error) {
	result, maxPts, err := s.quote(ctx, c)
	if err != nil {
		return View{}, err
	}
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, *c); err != nil {
		return View{}, err
	}
	return View{Cart: *c, Pricing: result, MaxPoints: maxPts}, nil
}

func (s *Service) quote(ctx context.Context, c *Cart) (pricing.Result, int64, error) {
	lines := c.Lines()
	subtotal := pricing.Subtotal(lines)
	savings := pricing.Savings(lines)

	available, err := s.ownerCoupons(ctx, *c)
	if err != nil {
		return pricing.Result{}, 0, err
	}
	productDiscount, used := coupon.ResolveProduct(available, c.Items(), s.Match)
	if obs.ProductCouponMatchedTotal != nil && len(used) > 0 {
		obs.ProductCouponMatchedTotal.Add(float64(len(used)))
	}

	var couponDiscount int64
	if c.Applied != nil {
		// Re-resolve so a coupon revoked upstream drops off the cart; the
		// discount captured at apply time stays authoritative otherwise.
		if _, err := coupon.FindCode(available, c.Applied.Code); err != nil {
			c.Applied = nil
		} else {
			couponDiscount = c.Applied.Discount
		}
	}

	remaining := pricing.Remaining(subtotal, couponDiscount, productDiscount)
	wallet, err := s.ownerWallet(ctx, *c)
	if err != nil {
		return pricing.Result{}, 0, err
	}
	maxPts := points.MaxRedeemable(wallet, remaining, s.pointValue())
	c.PointsToUse = points.Clamp(c.PointsToUse, maxPts)
	deduction := points.Deduction(c.PointsToUse, s.pointValue())

	result := pricing.Compose(pricing.Inputs{
		Subtotal:               subtotal,
		CouponDiscount:         couponDiscount,
		ProductCouponsDiscount: productDiscount,
		PointsDeduction:        deduction,
		Savings:                savings,
	})
	if obs.QuoteComputeTotal != nil {
		obs.QuoteComputeTotal.Inc()
	}
	return result, maxPts, nil
}

func (s *Service) ownerCoupons(ctx context.Context, c Cart) ([]coupon.Coupon, error) {
	if s.Profile == nil || c.UserID == "" {
		return nil, nil
	}
	return s.Profile.Coupons(ctx, c.UserID)
}

func (s *Service) ownerWallet(ctx context.Context, c Cart) (int64, error) {
	if s.Profile == nil || c.UserID == "" {
		return 0, nil
	}
	return s.Profile.Wallet(ctx, c.UserID)
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
