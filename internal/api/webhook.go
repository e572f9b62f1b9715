package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"price-manager/internal/entity"
)

const idempotentKeyHeader = "Idempotent-Key"

type WebhookProcessor interface {
	ClaimDelivery(ctx context.Context, key string) (bool, error)
	ReleaseDelivery(ctx context.Context, key string) error
	HandleProductUpdated(ctx context.Context, payload entity.WebhookPayload) error
	HandleChannelCreated(ctx context.Context, payload entity.WebhookPayload) error
}

// WebhookHandler receives storefront events.
type WebhookHandler struct {
	webhooks WebhookProcessor
}

func NewWebhookHandler(webhooks WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

func (h *WebhookHandler) ProductUpdated(c echo.Context) error {
	return h.handle(c, h.webhooks.HandleProductUpdated)
}

func (h *WebhookHandler) ChannelCreated(c echo.Context) error {
	return h.handle(c, h.webhooks.HandleChannelCreated)
}

func (h *WebhookHandler) handle(c echo.Context, process func(context.Context, entity.WebhookPayload) error) error {
	ctx := c.Request().Context()
	var payload entity.WebhookPayload
	if err := c.Bind(&payload); err != nil {
		return invalidPayload(c)
	}

	key := c.Request().Header.Get(idempotentKeyHeader)
	first, err := h.webhooks.ClaimDelivery(ctx, key)
	if err != nil {
		return errorJSON(c, err)
	}
	if !first {
		return c.JSON(200, map[string]string{"status": "duplicate"})
	}

	// A failed delivery must stay retryable under the same key.
	if err := process(ctx, payload); err != nil {
		if rerr := h.webhooks.ReleaseDelivery(ctx, key); rerr != nil {
			c.Logger().Errorf("release delivery %s: %v", key, rerr)
		}
		return errorJSON(c, err)
	}
	return c.JSON(200, map[string]string{"status": "received"})
}
