package points

import "testing"

func TestMaxRedeemableWalletBound(t *testing.T) {
	// R = 110.00, point value 0.10 => 1100 points needed, wallet holds 500.
	if got := MaxRedeemable(500, 11000, 10); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
}

func TestMaxRedeemableRemainingBound(t *testing.T) {
	if got := MaxRedeemable(5000, 11000, 10); got != 1100 {
		t.Fatalf("expected 1100, got %d", got)
	}
}

func TestMaxRedeemableCeiling(t *testing.T) {
	// 10.05 remaining at 0.10/point needs 101 points, not 100.
	if got := MaxRedeemable(5000, 1005, 10); got != 101 {
		t.Fatalf("expected 101, got %d", got)
	}
}

func TestMaxRedeemableZeroRemaining(t *testing.T) {
	if got := MaxRedeemable(500, 0, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 100); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Clamp(300, 100); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := Clamp(50, 100); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestDeduction(t *testing.T) {
	if got := Deduction(300, 10); got != 3000 {
		t.Fatalf("expected 3000, got %d", got)
	}
	if got := Deduction(0, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
