package entity

import (
	"price-manager/internal/discount"
)

// PriceCalculationRequest asks for the price of one product in one channel.
type PriceCalculationRequest struct {
	ProductID string `json:"product_id"`
	ChannelID string `json:"channel_id"`
	BasePrice string `json:"base_price"` // decimal text, must be > 0
}

// PriceCalculation is the priced result of a PriceCalculationRequest.
type PriceCalculation struct {
	ProductID       string             `json:"product_id"`
	ChannelID       string             `json:"channel_id"`
	BasePrice       string             `json:"base_price"`
	MarkupPercent   string             `json:"markup_percent"`
	DiscountPercent string             `json:"discount_percent,omitempty"`
	DiscountApplied bool               `json:"discount_applied"`
	FinalPrice      string             `json:"final_price"`
	Currency        string             `json:"currency"`
	ActiveDiscount  *discount.Discount `json:"active_discount,omitempty"`
}
