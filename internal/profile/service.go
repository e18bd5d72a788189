package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-grocer/internal/coupon"
)

// Service reads the user profile inputs the engine consumes: the loyalty
// wallet balance and the coupons issued to the user. Both are read-only
// here; issuance and spend marking happen upstream.
type Service struct {
	Pool *pgxpool.Pool
}

// Wallet returns the loyalty point balance for a user. Unknown users hold
// zero points rather than erroring, so anonymous carts price cleanly.
func (s *Service) Wallet(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.Pool == nil {
		return 0, errors.New("profile service not configured")
	}
	if userID == "" {
		return 0, nil
	}
	var balance int64
	err := s.Pool.QueryRow(ctx, `
		SELECT wallet_points FROM profiles WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("load wallet: %w", err)
	}
	if balance < 0 {
		balance = 0
	}
	return balance, nil
}

// Coupons returns the user's issued coupons in issuance order.
func (s *Service) Coupons(ctx context.Context, userID string) ([]coupon.Coupon, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("profile service not configured")
	}
	if userID == "" {
		return nil, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, code, kind, value_cents, COALESCE(product_id::text, ''), COALESCE(label, '')
		FROM coupons
		WHERE user_id = $1
		ORDER BY issued_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]coupon.Coupon, 0)
	for rows.Next() {
		var c coupon.Coupon
		var kind string
		if err := rows.Scan(&c.ID, &c.Code, &kind, &c.Value, &c.ProductID, &c.Label); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		c.Kind = coupon.Kind(kind)
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coupons, nil
}
