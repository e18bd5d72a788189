package cart

import (
	"errors"
	"time"

	"github.com/noah-isme/backend-grocer/internal/coupon"
	"github.com/noah-isme/backend-grocer/internal/pricing"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Unit is the measure a bulk entry was selected in.
type Unit string

const (
	// UnitWeight marks weight-selected bulk entries (kilograms).
	UnitWeight Unit = "kg"
	// UnitPiece marks loose piece-selected bulk entries.
	UnitPiece Unit = "pc"
)

// Entry is one cart line. Exactly one variant is populated: unit-counted
// entries carry Qty and price as Qty x UnitPrice; bulk entries carry
// BulkQty/BulkUnit plus an authoritative TotalPrice captured at selection
// time, which is never recomputed from the unit price.
type Entry struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	UnitPrice  int64   `json:"unitPrice"`
	CompareAt  int64   `json:"compareAt,omitempty"`
	Qty        int64   `json:"qty,omitempty"`
	Bulk       bool    `json:"bulk,omitempty"`
	BulkQty    float64 `json:"bulkQty,omitempty"`
	BulkUnit   Unit    `json:"bulkUnit,omitempty"`
	TotalPrice int64   `json:"totalPrice,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Line projects the entry into the pricing engine's representation.
func (e Entry) Line() pricing.Line {
	return pricing.Line{
		Qty:       e.Qty,
		UnitPrice: e.UnitPrice,
		CompareAt: e.CompareAt,
		Bulk:      e.Bulk,
		BulkTotal: e.TotalPrice,
	}
}

// LineTotal returns the display total for this entry.
func (e Entry) LineTotal() int64 {
	return e.Line().Total()
}

// Cart is the mutable session document. All pricing figures are derived from
// it on every read; none are stored.
type Cart struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	AnonID      string          `json:"anonId,omitempty"`
	Entries     []Entry         `json:"entries"`
	Applied     *coupon.Applied `json:"appliedCoupon,omitempty"`
	PointsToUse int64           `json:"pointsToUse"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Lines projects all entries for the aggregator, preserving insertion order.
func (c Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.Entries))
	for _, e := range c.Entries {
		lines = append(lines, e.Line())
	}
	return lines
}

// Items projects the entries for coupon eligibility checks.
func (c Cart) Items() []coupon.Item {
	items := make([]coupon.Item, 0, len(c.Entries))
	for _, e := range c.Entries {
		qty := e.Qty
		if e.Bulk {
			qty = 1
		}
		items = append(items, coupon.Item{ProductID: e.ProductID, Qty: qty})
	}
	return items
}

// CloneEntries returns a by-value copy of the entry sequence, detached from
// the cart so later mutation cannot alter the copy.
func (c Cart) CloneEntries() []Entry {
	if len(c.Entries) == 0 {
		return []Entry{}
	}
	out := make([]Entry, len(c.Entries))
	copy(out, c.Entries)
	return out
}
