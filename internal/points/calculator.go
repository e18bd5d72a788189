// Package points computes loyalty point redemption against a payable amount.
package points

// MaxRedeemable returns the largest number of points that may be applied
// given the wallet balance and the remaining payable amount. The cap uses
// ceiling division so a remainder smaller than one point still admits the
// final point; the composer's clamp absorbs the overshoot.
func MaxRedeemable(wallet int64, remaining int64, pointValue int64) int64 {
	if wallet <= 0 || remaining <= 0 || pointValue <= 0 {
		return 0
	}
	needed := (remaining + pointValue - 1) / pointValue
	if needed < wallet {
		return needed
	}
	return wallet
}

// Clamp forces a requested point count into [0, max]. Out-of-range values are
// adjusted silently; the slider is a continuous control, not a command.
func Clamp(requested, max int64) int64 {
	if requested < 0 {
		return 0
	}
	if requested > max {
		return max
	}
	return requested
}

// Deduction converts a point count into its currency value in minor units.
func Deduction(pts int64, pointValue int64) int64 {
	if pts <= 0 || pointValue <= 0 {
		return 0
	}
	return pts * pointValue
}
