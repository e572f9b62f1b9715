package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"price-manager/pkg/pricing"
)

const (
	EventProductUpdated = "PRODUCT_UPDATED"
	EventChannelCreated = "CHANNEL_CREATED"
)

// WebhookPayload is an event delivered by the storefront.
type WebhookPayload struct {
	EventType string      `json:"event_type"`
	ProductID string      `json:"product_id,omitempty"`
	ChannelID string      `json:"channel_id,omitempty"`
	Data      WebhookData `json:"data"`
}

type WebhookData struct {
	Channels []ChannelListing `json:"channels,omitempty"`
	// Name and Slug describe the channel of a CHANNEL_CREATED event.
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// ChannelListing is a product's base price in one channel. Price is nil for
// channels where the product is not priced.
type ChannelListing struct {
	ChannelID string `json:"id"`
	Price     *Money `json:"price,omitempty"`
}

// Money accepts the amount as a JSON number or string without going through float64.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

var errAmountOutOfRange = errors.New("amount is out of range")

func (m *Money) UnmarshalJSON(data []byte) error {
	type money Money
	var v money
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !pricing.InBounds(v.Amount) {
		return errAmountOutOfRange
	}
	*m = Money(v)
	return nil
}

// ProductUpdatedEvent travels on the product topic.
type ProductUpdatedEvent struct {
	ProductID string           `json:"product_id"`
	Channels  []ChannelListing `json:"channels"`
}

// PriceUpdatedEvent travels on the price topic, one per product and channel.
type PriceUpdatedEvent struct {
	ProductID     string    `json:"product_id"`
	ChannelID     string    `json:"channel_id"`
	BasePrice     string    `json:"base_price"`
	MarkupPercent string    `json:"markup_percent"`
	FinalPrice    string    `json:"final_price"`
	Currency      string    `json:"currency"`
	CalculatedAt  time.Time `json:"calculated_at"`
}
