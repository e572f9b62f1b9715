package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"price-manager/internal/entity"
	"price-manager/pkg/pricing"
)

type PriceCalculator interface {
	Calculate(ctx context.Context, req entity.PriceCalculationRequest) (*entity.PriceCalculation, error)
	BatchCalculate(ctx context.Context, reqs []entity.PriceCalculationRequest) ([]pricing.BatchResultItem, error)
}

// PricingHandler handles pricing requests.
type PricingHandler struct {
	prices PriceCalculator
	binder echo.DefaultBinder
}

// NewPricingHandler creates a new PricingHandler instance.
func NewPricingHandler(prices PriceCalculator) *PricingHandler {
	return &PricingHandler{prices: prices}
}

// Calculate prices one product in one channel.
func (h *PricingHandler) Calculate(c echo.Context) error {
	var req entity.PriceCalculationRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	result, err := h.prices.Calculate(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, result)
}

// BatchCalculate prices a list of products with their channel markups.
func (h *PricingHandler) BatchCalculate(c echo.Context) error {
	var reqs []entity.PriceCalculationRequest
	if err := h.binder.BindBody(c, &reqs); err != nil {
		return invalidPayload(c)
	}

	results, err := h.prices.BatchCalculate(c.Request().Context(), reqs)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, results)
}

// Markup applies an explicit markup to a base price, without channel lookup.
func (h *PricingHandler) Markup(c echo.Context) error {
	var req pricing.BatchItem
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	price, err := pricing.CalculatePrice(req.BasePrice, req.MarkupPercent)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, map[string]string{"final_price": price})
}

// BatchMarkup applies explicit markups to a list of records. Every record
// must carry product_id, base_price and markup_percent as strings.
func (h *PricingHandler) BatchMarkup(c echo.Context) error {
	var records []map[string]interface{}
	if err := h.binder.BindBody(c, &records); err != nil {
		return invalidPayload(c)
	}

	results, err := pricing.BatchCalculateRecords(records)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, results)
}
