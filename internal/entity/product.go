package entity

import (
	"price-manager/internal/discount"
)

type ProductDiscounts struct {
	ProductID      string              `json:"product_id"`
	Discounts      []discount.Discount `json:"discounts"`
	ActiveDiscount *discount.Discount  `json:"active_discount"`
}

// BatchDiscountsRequest sets the same discounts on many products. An empty
// ProductIDs targets every product that already has discounts.
type BatchDiscountsRequest struct {
	ProductIDs []string            `json:"product_ids,omitempty"`
	Discounts  []discount.Discount `json:"discounts"`
}

type BatchDiscountsResult struct {
	Success         bool `json:"success"`
	TotalProducts   int  `json:"total_products"`
	UpdatedProducts int  `json:"updated_products"`
	DiscountsCount  int  `json:"discounts_count"`
}

/*
Mysql Table

CREATE TABLE product_discounts (
	product_id VARCHAR(255) PRIMARY KEY,
	discounts TEXT NOT NULL
);
*/
