package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"price-manager/internal/discount"
	"price-manager/internal/entity"
	"price-manager/pkg/pricing"
)

// MarkupProvider resolves the markup percent of a channel.
type MarkupProvider interface {
	GetChannelMarkup(ctx context.Context, channelID string) (decimal.Decimal, error)
}

// PricingService prices products per channel on top of the pricing package.
type PricingService struct {
	markups   MarkupProvider
	discounts DiscountStore
	writer    MessageWriter
	currency  string
	now       func() time.Time
}

// NewPricingService creates a new instance of PricingService. writer receives
// price-updated events and may be nil when recalculation is not used.
func NewPricingService(markups MarkupProvider, discounts DiscountStore, writer MessageWriter, currency string) *PricingService {
	return &PricingService{
		markups:   markups,
		discounts: discounts,
		writer:    writer,
		currency:  currency,
		now:       time.Now,
	}
}

func validateRequest(req entity.PriceCalculationRequest) error {
	if req.ProductID == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalidRequest)
	}
	if req.ChannelID == "" {
		return fmt.Errorf("%w: channel_id is required", ErrInvalidRequest)
	}
	base, err := pricing.ParseDecimal(pricing.FieldBasePrice, req.BasePrice)
	if err != nil {
		return err
	}
	if !base.IsPositive() {
		return fmt.Errorf("%w: base_price must be positive", ErrInvalidRequest)
	}
	return nil
}

// Calculate prices one product in one channel: the channel markup first,
// then the product's active discount if there is one. The price is rounded
// once, after both adjustments.
func (s *PricingService) Calculate(ctx context.Context, req entity.PriceCalculationRequest) (*entity.PriceCalculation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	markup, err := s.markups.GetChannelMarkup(ctx, req.ChannelID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting markup for channel %s", req.ChannelID)
		return nil, err
	}

	base := decimal.RequireFromString(req.BasePrice)
	marked := pricing.Calculate(base, markup)

	result := &entity.PriceCalculation{
		ProductID:     req.ProductID,
		ChannelID:     req.ChannelID,
		BasePrice:     pricing.Format(base),
		MarkupPercent: pricing.Format(markup),
		FinalPrice:    pricing.Format(marked),
		Currency:      s.currency,
	}

	discounts, err := s.discounts.GetProductDiscounts(ctx, req.ProductID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting discounts for product %s", req.ProductID)
		return nil, err
	}
	if active := discount.Active(discounts, s.now()); active != nil {
		discounted := discount.Apply(marked, active)
		result.FinalPrice = pricing.Format(discounted)
		result.DiscountPercent = pricing.Format(active.Percent.Decimal)
		result.DiscountApplied = true
		result.ActiveDiscount = active
	}

	return result, nil
}

// BatchCalculate prices many requests with their channel markups. Discounts
// are not applied. The first invalid request aborts the batch.
func (s *PricingService) BatchCalculate(ctx context.Context, reqs []entity.PriceCalculationRequest) ([]pricing.BatchResultItem, error) {
	markups := make(map[string]decimal.Decimal)
	items := make([]pricing.BatchItem, 0, len(reqs))

	for i, req := range reqs {
		if err := validateRequest(req); err != nil {
			return nil, &pricing.ItemError{Index: i, ProductID: req.ProductID, Err: err}
		}
		markup, err := s.channelMarkup(ctx, markups, req.ChannelID)
		if err != nil {
			return nil, err
		}
		items = append(items, pricing.BatchItem{
			ProductID:     req.ProductID,
			BasePrice:     req.BasePrice,
			MarkupPercent: markup.String(),
		})
	}

	return pricing.BatchCalculate(items)
}

func (s *PricingService) channelMarkup(ctx context.Context, seen map[string]decimal.Decimal, channelID string) (decimal.Decimal, error) {
	if markup, ok := seen[channelID]; ok {
		return markup, nil
	}
	markup, err := s.markups.GetChannelMarkup(ctx, channelID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting markup for channel %s", channelID)
		return decimal.Zero, err
	}
	seen[channelID] = markup
	return markup, nil
}

// RecalculateProduct prices a product in every channel it is listed in and
// publishes one price-updated event per channel.
func (s *PricingService) RecalculateProduct(ctx context.Context, ev entity.ProductUpdatedEvent) ([]entity.PriceUpdatedEvent, error) {
	markups := make(map[string]decimal.Decimal)
	var listings []entity.ChannelListing
	var items []pricing.BatchItem

	for _, listing := range ev.Channels {
		if listing.Price == nil {
			continue
		}
		markup, err := s.channelMarkup(ctx, markups, listing.ChannelID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
		items = append(items, pricing.BatchItem{
			ProductID:     ev.ProductID,
			BasePrice:     listing.Price.Amount.String(),
			MarkupPercent: markup.String(),
		})
	}

	results, err := pricing.BatchCalculate(items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	events := make([]entity.PriceUpdatedEvent, 0, len(results))
	msgs := make([]kafka.Message, 0, len(results))
	for i, res := range results {
		listing := listings[i]
		currency := listing.Price.Currency
		if currency == "" {
			currency = s.currency
		}
		event := entity.PriceUpdatedEvent{
			ProductID:     res.ProductID,
			ChannelID:     listing.ChannelID,
			BasePrice:     pricing.Format(listing.Price.Amount),
			MarkupPercent: pricing.Format(markups[listing.ChannelID]),
			FinalPrice:    res.FinalPrice,
			Currency:      currency,
			CalculatedAt:  now,
		}
		value, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
		msgs = append(msgs, kafka.Message{
			Key:   []byte(fmt.Sprintf("price-updated.%s.%s", event.ProductID, event.ChannelID)),
			Value: value,
		})
	}

	if len(msgs) > 0 && s.writer != nil {
		if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
			logger.Error().Err(err).Msgf("Error publishing prices for product %s", ev.ProductID)
			return nil, err
		}
	}

	logger.Info().Str("product_id", ev.ProductID).Int("channels", len(events)).Msg("Recalculated product prices")
	return events, nil
}
