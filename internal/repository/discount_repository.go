package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"price-manager/internal/discount"
)

// DiscountRepository stores the discount list of each product as JSON.
type DiscountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) *DiscountRepository {
	return &DiscountRepository{db}
}

// GetProductDiscounts returns the product's discounts; a product without a
// row has none.
func (r *DiscountRepository) GetProductDiscounts(ctx context.Context, productID string) ([]discount.Discount, error) {
	query := `SELECT discounts FROM product_discounts WHERE product_id = ?`
	var raw string
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []discount.Discount{}, nil
		}
		return nil, err
	}
	return discount.Decode(raw), nil
}

// SetProductDiscounts replaces the product's discounts.
func (r *DiscountRepository) SetProductDiscounts(ctx context.Context, productID string, discounts []discount.Discount) error {
	raw, err := discount.Encode(discounts)
	if err != nil {
		return fmt.Errorf("could not encode discounts: %w", err)
	}
	query := `INSERT INTO product_discounts (product_id, discounts) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE discounts = VALUES(discounts)`
	_, err = r.db.ExecContext(ctx, query, productID, raw)
	return err
}

// ListProductIDs returns every product that has a discount row.
func (r *DiscountRepository) ListProductIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product_id FROM product_discounts ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetDiscountsForProducts gives every product the same discounts in one
// transaction.
func (r *DiscountRepository) SetDiscountsForProducts(ctx context.Context, productIDs []string, discounts []discount.Discount) error {
	if len(productIDs) == 0 {
		return nil
	}
	raw, err := discount.Encode(discounts)
	if err != nil {
		return fmt.Errorf("could not encode discounts: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `INSERT INTO product_discounts (product_id, discounts) VALUES `
	values := make([]interface{}, 0, 2*len(productIDs))
	for _, id := range productIDs {
		query += "(?, ?),"
		values = append(values, id, raw)
	}
	query = query[:len(query)-1] + ` ON DUPLICATE KEY UPDATE discounts = VALUES(discounts)`

	if _, err := tx.ExecContext(ctx, query, values...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
