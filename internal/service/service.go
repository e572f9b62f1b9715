package service

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"price-manager/internal/discount"
	"price-manager/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidMarkup  = errors.New("markup percent must be between 0 and 1000")
	ErrInvalidWebhook = errors.New("invalid webhook payload")
)

// ValidationError lists every problem found in a discount list.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid discounts: " + strings.Join(e.Problems, "; ")
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ChannelStore is the channel persistence used by MarkupService.
type ChannelStore interface {
	ListChannels(ctx context.Context) ([]entity.Channel, error)
	GetChannelMarkup(ctx context.Context, id string) (string, error)
	SetChannelMarkup(ctx context.Context, id, markup string) error
	CreateChannel(ctx context.Context, ch *entity.Channel) error
}

// DiscountStore is the discount persistence used by PriceService and DiscountService.
type DiscountStore interface {
	GetProductDiscounts(ctx context.Context, productID string) ([]discount.Discount, error)
	SetProductDiscounts(ctx context.Context, productID string, discounts []discount.Discount) error
	ListProductIDs(ctx context.Context) ([]string, error)
	SetDiscountsForProducts(ctx context.Context, productIDs []string, discounts []discount.Discount) error
}
