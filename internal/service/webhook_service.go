package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"price-manager/internal/entity"
)

const idempotentKeyTTL = 24 * time.Hour

// ChannelRegistrar records channels announced by the storefront.
type ChannelRegistrar interface {
	RegisterChannel(ctx context.Context, ch entity.Channel) error
}

// WebhookService turns storefront webhooks into product events and cache
// invalidations.
type WebhookService struct {
	rdb      *redis.Client
	writer   MessageWriter
	channels ChannelRegistrar
}

// NewWebhookService creates a new instance of WebhookService. writer
// publishes to the product topic.
func NewWebhookService(rdb *redis.Client, writer MessageWriter, channels ChannelRegistrar) *WebhookService {
	return &WebhookService{rdb: rdb, writer: writer, channels: channels}
}

// ClaimDelivery records a webhook delivery key and reports whether this is
// its first delivery. Deliveries without a key are always processed.
func (s *WebhookService) ClaimDelivery(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	return s.rdb.SetNX(ctx, idempotentKey(key), "exists", idempotentKeyTTL).Result()
}

// ReleaseDelivery forgets a claimed delivery key so a retry is processed.
func (s *WebhookService) ReleaseDelivery(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.rdb.Del(ctx, idempotentKey(key)).Err()
}

func idempotentKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

// HandleProductUpdated queues a price recalculation for the product.
func (s *WebhookService) HandleProductUpdated(ctx context.Context, payload entity.WebhookPayload) error {
	if payload.EventType != entity.EventProductUpdated || payload.ProductID == "" {
		return ErrInvalidWebhook
	}

	event := entity.ProductUpdatedEvent{
		ProductID: payload.ProductID,
		Channels:  payload.Data.Channels,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// product.updated.<id>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("product.updated.%s", payload.ProductID)),
		Value: value,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing update for product %s", payload.ProductID)
		return err
	}
	return nil
}

// HandleChannelCreated registers the new channel with no markup. A missing
// name or slug leaves a known channel's value untouched.
func (s *WebhookService) HandleChannelCreated(ctx context.Context, payload entity.WebhookPayload) error {
	if payload.EventType != entity.EventChannelCreated || payload.ChannelID == "" {
		return ErrInvalidWebhook
	}
	ch := entity.Channel{ID: payload.ChannelID, Name: payload.Data.Name, Slug: payload.Data.Slug}
	return s.channels.RegisterChannel(ctx, ch)
}
