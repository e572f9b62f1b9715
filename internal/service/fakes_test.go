package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"price-manager/internal/discount"
	"price-manager/internal/entity"
	"price-manager/internal/repository"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

type fakeChannelStore struct {
	channels []entity.Channel
	markups  map[string]string
	err      error
	reads    int
}

func (f *fakeChannelStore) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Channel, len(f.channels))
	copy(out, f.channels)
	return out, nil
}

func (f *fakeChannelStore) GetChannelMarkup(ctx context.Context, id string) (string, error) {
	f.reads++
	if f.err != nil {
		return "", f.err
	}
	m, ok := f.markups[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", repository.ErrChannelNotFound, id)
	}
	return m, nil
}

func (f *fakeChannelStore) SetChannelMarkup(ctx context.Context, id, markup string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.markups[id]; !ok {
		return fmt.Errorf("%w: %s", repository.ErrChannelNotFound, id)
	}
	f.markups[id] = markup
	return nil
}

func (f *fakeChannelStore) CreateChannel(ctx context.Context, ch *entity.Channel) error {
	if f.err != nil {
		return f.err
	}
	if f.markups == nil {
		f.markups = make(map[string]string)
	}
	if _, ok := f.markups[ch.ID]; !ok {
		f.markups[ch.ID] = "0"
	}
	for i := range f.channels {
		if f.channels[i].ID == ch.ID {
			if ch.Name != "" {
				f.channels[i].Name = ch.Name
			}
			if ch.Slug != "" {
				f.channels[i].Slug = ch.Slug
			}
			return nil
		}
	}
	added := *ch
	if added.Name == "" {
		added.Name = added.ID
	}
	if added.Slug == "" {
		added.Slug = added.ID
	}
	f.channels = append(f.channels, added)
	return nil
}

type fakeDiscountStore struct {
	discounts map[string][]discount.Discount
	err       error
}

func (f *fakeDiscountStore) GetProductDiscounts(ctx context.Context, productID string) ([]discount.Discount, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.discounts[productID]; ok {
		return d, nil
	}
	return []discount.Discount{}, nil
}

func (f *fakeDiscountStore) SetProductDiscounts(ctx context.Context, productID string, discounts []discount.Discount) error {
	if f.err != nil {
		return f.err
	}
	if f.discounts == nil {
		f.discounts = make(map[string][]discount.Discount)
	}
	f.discounts[productID] = discounts
	return nil
}

func (f *fakeDiscountStore) ListProductIDs(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.discounts))
	for id := range f.discounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeDiscountStore) SetDiscountsForProducts(ctx context.Context, productIDs []string, discounts []discount.Discount) error {
	if f.err != nil {
		return f.err
	}
	if f.discounts == nil {
		f.discounts = make(map[string][]discount.Discount)
	}
	for _, id := range productIDs {
		f.discounts[id] = discounts
	}
	return nil
}

type fakeMarkups struct {
	markups map[string]string
	err     error
	calls   map[string]int
}

func (f *fakeMarkups) GetChannelMarkup(ctx context.Context, channelID string) (decimal.Decimal, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[channelID]++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	m, ok := f.markups[channelID]
	if !ok {
		return decimal.Zero, nil
	}
	return decimal.RequireFromString(m), nil
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}
