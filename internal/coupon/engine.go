package coupon

import "strings"

// Normalize canonicalises a typed code before lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindCode resolves a typed or selected code against the user's coupons.
// Only code-kind coupons participate. Lookup is case-insensitive.
func FindCode(available []Coupon, code string) (Coupon, error) {
	want := Normalize(code)
	if want == "" {
		return Coupon{}, ErrNotFound
	}
	for _, c := range available {
		if c.Kind != KindCode {
			continue
		}
		if Normalize(c.Code) == want {
			return c, nil
		}
	}
	return Coupon{}, ErrNotFound
}

// ResolveProduct evaluates every product-bound coupon against the cart and
// returns the stacked discount plus the consumed instances. Each issued
// instance contributes at most once regardless of how many eligible lines
// the cart holds; eligibility is decided by the supplied matcher.
func ResolveProduct(available []Coupon, items []Item, match Matcher) (int64, []Coupon) {
	if match == nil {
		match = ProductMatcher
	}
	var discount int64
	used := make([]Coupon, 0)
	for _, c := range available {
		if c.Kind != KindProduct || c.Value <= 0 {
			continue
		}
		if !match(c, items) {
			continue
		}
		discount += c.Value
		used = append(used, c)
	}
	return discount, used
}

// GroupAll partitions coupons into display groups. Product coupons group by
// label, code coupons by normalized code; group order follows first
// occurrence in the source collection.
func GroupAll(available []Coupon) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, c := range available {
		key := groupKey(c)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Count++
			groups[i].Codes = append(groups[i].Codes, c.Code)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{
			Key:   key,
			Kind:  c.Kind,
			Label: c.Label,
			Value: c.Value,
			Count: 1,
			Codes: []string{c.Code},
		})
	}
	return groups
}

func groupKey(c Coupon) string {
	if c.Kind == KindProduct {
		return strings.TrimSpace(c.Label)
	}
	return Normalize(c.Code)
}
