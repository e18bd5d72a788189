package coupon

import "errors"

// Kind distinguishes the two coupon tiers. Code coupons are mutually
// exclusive (at most one active per cart); product coupons stack additively.
type Kind string

const (
	// KindCode is a typed or selected discount code worth a fixed amount.
	KindCode Kind = "code"
	// KindProduct is bound to a product and matched automatically against
	// cart contents.
	KindProduct Kind = "product"
)

var (
	// ErrNotFound is returned when a typed code matches none of the user's coupons.
	ErrNotFound = errors.New("coupon not found")
)

// Coupon is a single issued, redeemable discount owned by a user. The same
// code may repeat across issuances; each instance is consumed independently.
type Coupon struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Kind      Kind   `json:"kind"`
	Value     int64  `json:"value"`
	ProductID string `json:"productId,omitempty"`
	// Label is the human-readable description of the targeted product for
	// product-bound coupons. It doubles as their display grouping key.
	Label string `json:"label,omitempty"`
}

// Applied is the single code coupon currently attached to a cart.
type Applied struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// Group is one display chip: identical issued coupons collapsed with a count.
type Group struct {
	Key   string   `json:"key"`
	Kind  Kind     `json:"kind"`
	Label string   `json:"label,omitempty"`
	Value int64    `json:"value"`
	Count int      `json:"count"`
	Codes []string `json:"codes"`
}

// Item is the cart projection the matching predicate sees.
type Item struct {
	ProductID string
	Qty       int64
}

// Matcher reports whether a product-bound coupon is eligible against the
// current cart contents. The matching policy is supplied by the caller.
type Matcher func(c Coupon, items []Item) bool

// ProductMatcher is the default policy: product-id equality against any line.
func ProductMatcher(c Coupon, items []Item) bool {
	if c.ProductID == "" {
		return false
	}
	for _, it := range items {
		if it.ProductID == c.ProductID {
			return true
		}
	}
	return false
}
