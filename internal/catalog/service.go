package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested catalog record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Product is the read-only reference record consumed by the pricing engine.
// Prices are minor units. Bulk products are sold by weight or loose pieces;
// their cart lines carry an authoritative precomputed total instead of
// qty x unit price.
type Product struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	UnitPriceCents int64  `json:"unitPrice"`
	CompareAtCents int64  `json:"compareAt,omitempty"`
	Bulk           bool   `json:"bulk"`
	Unit           string `json:"unit,omitempty"`
}

// BundleItem is one component of a combo bundle.
type BundleItem struct {
	ProductID string `json:"productId"`
	Qty       int64  `json:"qty"`
}

// Bundle is a combo offer whose discounted price produces per-line savings.
type Bundle struct {
	ID             string       `json:"id"`
	Slug           string       `json:"slug"`
	Name           string       `json:"name"`
	Image          string       `json:"image,omitempty"`
	PriceCents     int64        `json:"price"`
	CompareAtCents int64        `json:"compareAt"`
	Items          []BundleItem `json:"items"`
}

// Service reads catalog reference data from Postgres with a Redis JSON cache
// in front of the hot list endpoints.
type Service struct {
	Pool     *pgxpool.Pool
	Cache    *Cache
	PageSize int
}

func (s *Service) pageSize() int {
	if s == nil || s.PageSize <= 0 {
		return 20
	}
	return s.PageSize
}

// ListProducts returns one page of products in stable slug order.
func (s *Service) ListProducts(ctx context.Context, page int) ([]Product, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("catalog service not configured")
	}
	if page <= 0 {
		page = 1
	}
	limit := s.pageSize()
	offset := (page - 1) * limit

	cacheKey := fmt.Sprintf("grocer:catalog:products:%d:%d", page, limit)
	var cached []Product
	if ok, err := s.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(image, ''), unit_price_cents, COALESCE(compare_at_cents, 0), bulk, COALESCE(unit, '')
		FROM products
		ORDER BY slug
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, limit)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Image, &p.UnitPriceCents, &p.CompareAtCents, &p.Bulk, &p.Unit); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, cacheKey, products)
	return products, nil
}

// GetProduct resolves a product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	if s == nil || s.Pool == nil {
		return Product{}, errors.New("catalog service not configured")
	}
	var p Product
	err := s.Pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(image, ''), unit_price_cents, COALESCE(compare_at_cents, 0), bulk, COALESCE(unit, '')
		FROM products
		WHERE id = $1`, id).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Image, &p.UnitPriceCents, &p.CompareAtCents, &p.Bulk, &p.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetProductBySlug resolves a product by its URL slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	if s == nil || s.Pool == nil {
		return Product{}, errors.New("catalog service not configured")
	}
	slug = strings.TrimSpace(slug)
	var p Product
	err := s.Pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(image, ''), unit_price_cents, COALESCE(compare_at_cents, 0), bulk, COALESCE(unit, '')
		FROM products
		WHERE slug = $1`, slug).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Image, &p.UnitPriceCents, &p.CompareAtCents, &p.Bulk, &p.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// ListBundles returns every active combo bundle with its components.
func (s *Service) ListBundles(ctx context.Context) ([]Bundle, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("catalog service not configured")
	}
	cacheKey := "grocer:catalog:bundles"
	var cached []Bundle
	if ok, err := s.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(image, ''), price_cents, compare_at_cents
		FROM bundles
		WHERE active
		ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	bundles := make([]Bundle, 0)
	byID := make(map[string]int)
	for rows.Next() {
		var b Bundle
		if err := rows.Scan(&b.ID, &b.Slug, &b.Name, &b.Image, &b.PriceCents, &b.CompareAtCents); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		b.Items = make([]BundleItem, 0, 2)
		byID[b.ID] = len(bundles)
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.Pool.Query(ctx, `
		SELECT bundle_id, product_id, qty
		FROM bundle_items
		ORDER BY bundle_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("list bundle items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var bundleID string
		var item BundleItem
		if err := itemRows.Scan(&bundleID, &item.ProductID, &item.Qty); err != nil {
			return nil, fmt.Errorf("scan bundle item: %w", err)
		}
		if i, ok := byID[bundleID]; ok {
			bundles[i].Items = append(bundles[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, cacheKey, bundles)
	return bundles, nil
}
