package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-grocer/internal/config"
)

func main() {
	cfg := config.MustLoad()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedProducts(ctx, pool)
	seedBundles(ctx, pool)
	seedProfiles(ctx, pool)
	seedCoupons(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) {
	products := []struct {
		Slug      string
		Name      string
		UnitPrice int64
		CompareAt int64
		Bulk      bool
		Unit      string
	}{
		{"leche-entera-1l", "Leche Entera 1L", 3500, 0, false, ""},
		{"arroz-premium-1kg", "Arroz Premium 1kg", 2800, 3200, false, ""},
		{"huevo-blanco-12", "Huevo Blanco 12pz", 4200, 0, false, ""},
		{"pan-integral", "Pan Integral", 3900, 4500, false, ""},
		{"carne-molida", "Carne Molida de Res", 18000, 0, true, "kg"},
		{"platano-granel", "Plátano a Granel", 2400, 0, true, "kg"},
		{"bolillo-pieza", "Bolillo", 250, 0, true, "pc"},
		{"aguacate-hass", "Aguacate Hass", 8900, 0, true, "kg"},
	}

	fmt.Println("Seeding Products...")
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (slug, name, unit_price_cents, compare_at_cents, bulk, unit)
			VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6)
			ON CONFLICT (slug) DO UPDATE SET
				name = EXCLUDED.name,
				unit_price_cents = EXCLUDED.unit_price_cents,
				compare_at_cents = EXCLUDED.compare_at_cents,
				bulk = EXCLUDED.bulk,
				unit = EXCLUDED.unit`,
			p.Slug, p.Name, p.UnitPrice, p.CompareAt, p.Bulk, p.Unit)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.Slug, err)
		}
	}
}

func seedBundles(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Seeding Bundles...")
	var bundleID string
	err := pool.QueryRow(ctx, `
		INSERT INTO bundles (slug, name, price_cents, compare_at_cents)
		VALUES ('desayuno-basico', 'Desayuno Básico', 10500, 11600)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			price_cents = EXCLUDED.price_cents,
			compare_at_cents = EXCLUDED.compare_at_cents
		RETURNING id`).Scan(&bundleID)
	if err != nil {
		log.Fatalf("seed bundle: %v", err)
	}

	for _, slug := range []string{"leche-entera-1l", "huevo-blanco-12", "pan-integral"} {
		_, err := pool.Exec(ctx, `
			INSERT INTO bundle_items (bundle_id, product_id, qty)
			SELECT $1, id, 1 FROM products WHERE slug = $2
			ON CONFLICT (bundle_id, product_id) DO NOTHING`, bundleID, slug)
		if err != nil {
			log.Fatalf("seed bundle item %s: %v", slug, err)
		}
	}
}

func seedProfiles(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Seeding Profiles...")
	profiles := []struct {
		UserID string
		Points int64
	}{
		{"user-alex", 500},
		{"user-maria", 1250},
		{"user-diego", 0},
	}
	for _, p := range profiles {
		_, err := pool.Exec(ctx, `
			INSERT INTO profiles (user_id, wallet_points)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET wallet_points = EXCLUDED.wallet_points`,
			p.UserID, p.Points)
		if err != nil {
			log.Fatalf("seed profile %s: %v", p.UserID, err)
		}
	}
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Seeding Coupons...")
	_, err := pool.Exec(ctx, `DELETE FROM coupons WHERE user_id IN ('user-alex', 'user-maria')`)
	if err != nil {
		log.Fatalf("reset coupons: %v", err)
	}

	codeCoupons := []struct {
		UserID string
		Code   string
		Value  int64
	}{
		{"user-alex", "ALEX10", 1000},
		{"user-maria", "BIENVENIDA", 1500},
	}
	for _, c := range codeCoupons {
		_, err := pool.Exec(ctx, `
			INSERT INTO coupons (code, kind, value_cents, user_id)
			VALUES ($1, 'code', $2, $3)`, c.Code, c.Value, c.UserID)
		if err != nil {
			log.Fatalf("seed coupon %s: %v", c.Code, err)
		}
	}

	// Two identical product coupons so the chips collapse with a count.
	for i := 0; i < 2; i++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO coupons (code, kind, value_cents, product_id, label, user_id)
			SELECT 'ARROZ-PROMO', 'product', 400, id, 'Arroz Premium 1kg', 'user-alex'
			FROM products WHERE slug = 'arroz-premium-1kg'`)
		if err != nil {
			log.Fatalf("seed product coupon: %v", err)
		}
	}
}
