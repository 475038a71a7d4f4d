package postgres

import (
	"context"
	"fmt"
)

// seedProduct — стартовая позиция каталога для демо и локальной разработки.
type seedProduct struct {
	name       string
	sku        string
	priceCents int64
	stockQty   int32
}

var seedProducts = []seedProduct{
	{name: `Laptop Pro 15"`, sku: "LAP-001", priceCents: 129999, stockQty: 25},
	{name: "Wireless Mouse", sku: "MOU-001", priceCents: 2999, stockQty: 100},
	{name: "Mechanical Keyboard", sku: "KEY-001", priceCents: 8999, stockQty: 50},
	{name: "USB-C Hub 7-in-1", sku: "HUB-001", priceCents: 4999, stockQty: 75},
	{name: `Monitor 27" 4K`, sku: "MON-001", priceCents: 39999, stockQty: 30},
	{name: "Webcam HD 1080p", sku: "CAM-001", priceCents: 6999, stockQty: 60},
	{name: "Desk Lamp LED", sku: "LMP-001", priceCents: 3499, stockQty: 80},
	{name: "External SSD 1TB", sku: "SSD-001", priceCents: 11999, stockQty: 45},
	{name: "Laptop Stand Aluminium", sku: "STD-001", priceCents: 2499, stockQty: 120},
	{name: "Noise-Cancelling Headphones", sku: "HPH-001", priceCents: 24999, stockQty: 35},
	{name: "Ergonomic Office Chair", sku: "CHR-001", priceCents: 34999, stockQty: 15},
	{name: "Desk Mat XXL", sku: "MAT-001", priceCents: 1999, stockQty: 90},
	{name: "Phone Stand Adjustable", sku: "PHS-001", priceCents: 1499, stockQty: 150},
	{name: "Cable Organizer Kit", sku: "CAB-001", priceCents: 899, stockQty: 200},
	{name: "Wireless Charger 15W", sku: "CHG-001", priceCents: 3999, stockQty: 70},
}

// Seed загружает стартовый каталог. Повторный запуск безопасен:
// конфликт по SKU означает, что позиция уже на месте.
func (s *Store) Seed(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}

	inserted := 0
	for _, product := range seedProducts {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, sku, price_cents, stock_qty)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (sku) DO NOTHING
		`, product.name, product.sku, product.priceCents, product.stockQty)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("seed product %s: %w", product.sku, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("seed rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}

	return inserted, nil
}
