package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Line describes a cart line used for pricing calculation. Exactly one
// variant applies: unit-counted lines are priced as Qty x UnitPrice, bulk
// lines carry an authoritative BulkTotal captured when the weight or piece
// amount was selected.
type Line struct {
	Qty       int64
	UnitPrice Money
	// CompareAt is the pre-promotion unit price. When it exceeds UnitPrice
	// the delta counts towards display savings; it never changes the total.
	CompareAt Money
	Bulk      bool
	BulkTotal Money
}

// Total returns the line total under the variant rule.
func (l Line) Total() Money {
	if l.Bulk {
		if l.BulkTotal < 0 {
			return 0
		}
		return l.BulkTotal
	}
	if l.Qty <= 0 || l.UnitPrice < 0 {
		return 0
	}
	return l.Qty * l.UnitPrice
}

// Subtotal sums line totals in order. An empty cart yields zero.
func Subtotal(lines []Line) Money {
	var subtotal Money
	for _, l := range lines {
		subtotal += l.Total()
	}
	return subtotal
}

// Savings sums the per-line original-vs-discounted deltas already baked into
// the line prices. Informational only; never subtracted from the total again.
func Savings(lines []Line) Money {
	var savings Money
	for _, l := range lines {
		if l.Bulk || l.CompareAt <= l.UnitPrice || l.Qty <= 0 {
			continue
		}
		savings += (l.CompareAt - l.UnitPrice) * l.Qty
	}
	return savings
}

// Inputs carries the composed discount components for a single computation.
type Inputs struct {
	Subtotal               Money
	CouponDiscount         Money
	ProductCouponsDiscount Money
	PointsDeduction        Money
	Savings                Money
}

// Result is the immutable output of one pricing computation.
type Result struct {
	Subtotal               Money `json:"subtotal"`
	TotalSavings           Money `json:"totalSavings"`
	CouponDiscount         Money `json:"couponDiscount"`
	ProductCouponsDiscount Money `json:"productCouponsDiscount"`
	PointsDeduction        Money `json:"pointsDeduction"`
	FinalTotal             Money `json:"finalTotal"`
}

// Compose combines subtotal, coupon discounts and the point deduction into
// the final charge. The final total never goes below zero no matter how
// large the combined discounts are.
func Compose(in Inputs) Result {
	subtotal := clampNonNegative(in.Subtotal)
	coupon := clampNonNegative(in.CouponDiscount)
	product := clampNonNegative(in.ProductCouponsDiscount)
	points := clampNonNegative(in.PointsDeduction)

	final := subtotal - coupon - product - points
	if final < 0 {
		final = 0
	}
	return Result{
		Subtotal:               subtotal,
		TotalSavings:           clampNonNegative(in.Savings),
		CouponDiscount:         coupon,
		ProductCouponsDiscount: product,
		PointsDeduction:        points,
		FinalTotal:             final,
	}
}

// Remaining returns the payable amount after coupon discounts, clamped to
// zero. This is the base the points redemption cap is sized against.
func Remaining(subtotal, couponDiscount, productCouponsDiscount Money) Money {
	r := clampNonNegative(subtotal) - clampNonNegative(couponDiscount) - clampNonNegative(productCouponsDiscount)
	if r < 0 {
		return 0
	}
	return r
}

func clampNonNegative(v Money) Money {
	if v < 0 {
		return 0
	}
	return v
}
