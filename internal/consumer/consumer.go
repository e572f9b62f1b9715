package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"price-manager/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Recalculator reprices a product after it changed.
type Recalculator interface {
	RecalculateProduct(ctx context.Context, ev entity.ProductUpdatedEvent) ([]entity.PriceUpdatedEvent, error)
}

// Read errors are retried with a doubling delay between these bounds.
const (
	minReadBackoff = 100 * time.Millisecond
	maxReadBackoff = 5 * time.Second
)

type Consumer struct {
	reader     MessageReader
	pricing    Recalculator
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewConsumer(reader MessageReader, pricing Recalculator) *Consumer {
	return &Consumer{
		reader:     reader,
		pricing:    pricing,
		minBackoff: minReadBackoff,
		maxBackoff: maxReadBackoff,
	}
}

// Run reads product events until ctx is done or the reader is closed.
func (c *Consumer) Run(ctx context.Context) error {
	logger.Info().Msg("Product event consumer started")
	backoff := c.minBackoff
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				logger.Info().Msg("Product event consumer stopped")
				return nil
			}
			logger.Error().Err(err).Dur("retry_in", backoff).Msg("Error reading message")
			select {
			case <-ctx.Done():
				logger.Info().Msg("Product event consumer stopped")
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, c.maxBackoff)
			continue
		}

		backoff = c.minBackoff
		c.processMessage(ctx, msg)
	}
}

// processMessage processes the message received from the product topic
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	// key -> "product.updated.<productID>"
	key := string(msg.Key)
	parts := strings.SplitN(key, ".", 3)
	if len(parts) < 2 || parts[0] != "product" {
		logger.Warn().Str("key", key).Msg("Skipping message with unknown key")
		return
	}

	switch parts[1] {
	case "updated":
		var event entity.ProductUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Error unmarshalling message")
			return
		}
		if _, err := c.pricing.RecalculateProduct(ctx, event); err != nil {
			logger.Error().Err(err).Msgf("Error recalculating prices for product %s", event.ProductID)
		}
	default:
		logger.Warn().Msgf("Unknown product event: %s", parts[1])
	}
}
