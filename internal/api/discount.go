package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"price-manager/internal/discount"
	"price-manager/internal/entity"
)

type DiscountManager interface {
	GetProductDiscounts(ctx context.Context, productID string) (*entity.ProductDiscounts, error)
	SetProductDiscounts(ctx context.Context, productID string, discounts []discount.Discount) (*entity.ProductDiscounts, error)
	BatchSetDiscounts(ctx context.Context, req entity.BatchDiscountsRequest) (*entity.BatchDiscountsResult, error)
}

type DiscountHandler struct {
	discounts DiscountManager
}

func NewDiscountHandler(discounts DiscountManager) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

func (h *DiscountHandler) GetDiscounts(c echo.Context) error {
	result, err := h.discounts.GetProductDiscounts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, result)
}

func (h *DiscountHandler) SetDiscounts(c echo.Context) error {
	var req struct {
		Discounts []discount.Discount `json:"discounts"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	result, err := h.discounts.SetProductDiscounts(c.Request().Context(), c.Param("id"), req.Discounts)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, result)
}

func (h *DiscountHandler) BatchSetDiscounts(c echo.Context) error {
	var req entity.BatchDiscountsRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	result, err := h.discounts.BatchSetDiscounts(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, result)
}
