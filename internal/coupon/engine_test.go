package coupon

import "testing"

func TestFindCodeCaseInsensitive(t *testing.T) {
	available := []Coupon{
		{ID: "1", Code: "ALEX10", Kind: KindCode, Value: 1000},
	}
	found, err := FindCode(available, "alex10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Value != 1000 {
		t.Fatalf("expected value 1000, got %d", found.Value)
	}
}

func TestFindCodeNotFound(t *testing.T) {
	available := []Coupon{
		{ID: "1", Code: "ALEX10", Kind: KindCode, Value: 1000},
		{ID: "2", Code: "FREEMILK", Kind: KindProduct, Value: 2200, ProductID: "p1", Label: "Leche entera 1L"},
	}
	if _, err := FindCode(available, "NOPE"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Product-bound coupons never resolve through the code path.
	if _, err := FindCode(available, "FREEMILK"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for product coupon, got %v", err)
	}
}

func TestResolveProductStacksAdditively(t *testing.T) {
	available := []Coupon{
		{ID: "1", Kind: KindProduct, Value: 2200, ProductID: "p1", Label: "Leche entera 1L"},
		{ID: "2", Kind: KindProduct, Value: 2200, ProductID: "p1", Label: "Leche entera 1L"},
		{ID: "3", Kind: KindProduct, Value: 1500, ProductID: "p9", Label: "Pan integral"},
	}
	items := []Item{{ProductID: "p1", Qty: 3}}
	discount, used := ResolveProduct(available, items, nil)
	if discount != 4400 {
		t.Fatalf("expected stacked discount 4400, got %d", discount)
	}
	if len(used) != 2 {
		t.Fatalf("expected 2 consumed coupons, got %d", len(used))
	}
}

func TestResolveProductIneligibleUnchanged(t *testing.T) {
	available := []Coupon{
		{ID: "1", Kind: KindProduct, Value: 1500, ProductID: "p9", Label: "Pan integral"},
	}
	discount, used := ResolveProduct(available, []Item{{ProductID: "p1", Qty: 1}}, nil)
	if discount != 0 || len(used) != 0 {
		t.Fatalf("expected no discount for ineligible coupon, got %d (%d used)", discount, len(used))
	}
}

func TestResolveProductCustomMatcher(t *testing.T) {
	available := []Coupon{
		{ID: "1", Kind: KindProduct, Value: 500, ProductID: "p1", Label: "Cafe molido"},
	}
	never := func(Coupon, []Item) bool { return false }
	discount, _ := ResolveProduct(available, []Item{{ProductID: "p1", Qty: 1}}, never)
	if discount != 0 {
		t.Fatalf("expected custom matcher to veto, got %d", discount)
	}
}

func TestGroupAllCollapsesAndPreservesOrder(t *testing.T) {
	available := []Coupon{
		{ID: "1", Code: "A1", Kind: KindProduct, Value: 2200, Label: "Leche entera 1L"},
		{ID: "2", Code: "B1", Kind: KindCode, Value: 1000},
		{ID: "3", Code: "A2", Kind: KindProduct, Value: 2200, Label: "Leche entera 1L"},
	}
	groups := GroupAll(available)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Leche entera 1L" || groups[0].Count != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[0].Codes[0] != "A1" || groups[0].Codes[1] != "A2" {
		t.Fatalf("expected underlying codes preserved, got %v", groups[0].Codes)
	}
	if groups[1].Kind != KindCode || groups[1].Count != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}
