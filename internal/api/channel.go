package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"price-manager/internal/entity"
	"price-manager/pkg/pricing"
)

type MarkupManager interface {
	ListChannels(ctx context.Context) ([]entity.Channel, error)
	SetChannelMarkup(ctx context.Context, channelID string, markup decimal.Decimal) (decimal.Decimal, error)
}

// ChannelHandler handles channel markup requests.
type ChannelHandler struct {
	markups MarkupManager
}

func NewChannelHandler(markups MarkupManager) *ChannelHandler {
	return &ChannelHandler{markups: markups}
}

// ListChannels returns every channel with its markup.
func (h *ChannelHandler) ListChannels(c echo.Context) error {
	channels, err := h.markups.ListChannels(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(200, channels)
}

// SetMarkup sets the markup percent of a channel.
func (h *ChannelHandler) SetMarkup(c echo.Context) error {
	var req entity.ChannelMarkup
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if req.ChannelID == "" {
		return c.JSON(400, map[string]string{"error": "channel_id is required"})
	}

	markup, err := pricing.ParseDecimal(pricing.FieldMarkupPercent, req.MarkupPercent)
	if err != nil {
		return errorJSON(c, err)
	}

	stored, err := h.markups.SetChannelMarkup(c.Request().Context(), req.ChannelID, markup)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"success": true,
		"markup": entity.ChannelMarkup{
			ChannelID:     req.ChannelID,
			MarkupPercent: pricing.Format(stored),
		},
	})
}
