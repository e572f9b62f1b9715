package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"price-manager/internal/entity"
	"price-manager/internal/repository"
	"price-manager/pkg/pricing"
)

var maxMarkup = decimal.NewFromInt(1000)

// MarkupService resolves channel markups, caching them in Redis.
type MarkupService struct {
	repo ChannelStore
	rdb  *redis.Client
	ttl  time.Duration
}

// NewMarkupService creates a new instance of MarkupService.
func NewMarkupService(repo ChannelStore, rdb *redis.Client, ttl time.Duration) *MarkupService {
	return &MarkupService{repo: repo, rdb: rdb, ttl: ttl}
}

func markupCacheKey(channelID string) string {
	return fmt.Sprintf("channel_markup:%s", channelID)
}

// GetChannelMarkup returns the markup percent of a channel. Unknown channels
// have no markup.
func (s *MarkupService) GetChannelMarkup(ctx context.Context, channelID string) (decimal.Decimal, error) {
	key := markupCacheKey(channelID)

	cached, err := s.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		markup, perr := decimal.NewFromString(cached)
		if perr == nil {
			return markup, nil
		}
		logger.Warn().Str("channel_id", channelID).Str("value", cached).Msg("Discarding unparseable cached markup")
	case !errors.Is(err, redis.Nil):
		logger.Warn().Err(err).Str("channel_id", channelID).Msg("Could not read markup from cache")
	}

	stored, err := s.repo.GetChannelMarkup(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("could not fetch channel markup: %w", err)
	}

	markup, err := pricing.ParseDecimal(pricing.FieldMarkupPercent, stored)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored markup for channel %s: %w", channelID, err)
	}

	if err := s.rdb.Set(ctx, key, markup.String(), s.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("channel_id", channelID).Msg("Could not cache markup")
	}
	return markup, nil
}

// SetChannelMarkup stores a new markup, rounded to two places, and refreshes the cache.
func (s *MarkupService) SetChannelMarkup(ctx context.Context, channelID string, markup decimal.Decimal) (decimal.Decimal, error) {
	if markup.IsNegative() || markup.GreaterThan(maxMarkup) {
		return decimal.Zero, ErrInvalidMarkup
	}
	rounded := pricing.Round(markup)

	if err := s.repo.SetChannelMarkup(ctx, channelID, pricing.Format(rounded)); err != nil {
		logger.Error().Err(err).Str("channel_id", channelID).Msg("Error updating channel markup")
		return decimal.Zero, err
	}

	if err := s.rdb.Set(ctx, markupCacheKey(channelID), rounded.String(), s.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("channel_id", channelID).Msg("Could not cache markup")
	}
	return rounded, nil
}

// RegisterChannel stores a new channel, keeping the markup of a known one,
// and drops its cached markup.
func (s *MarkupService) RegisterChannel(ctx context.Context, ch entity.Channel) error {
	if err := s.repo.CreateChannel(ctx, &ch); err != nil {
		logger.Error().Err(err).Msgf("Error registering channel %s", ch.ID)
		return err
	}
	return s.InvalidateCache(ctx, ch.ID)
}

// InvalidateCache drops the cached markup of a channel.
func (s *MarkupService) InvalidateCache(ctx context.Context, channelID string) error {
	return s.rdb.Del(ctx, markupCacheKey(channelID)).Err()
}

// ListChannels returns every channel with its effective markup.
func (s *MarkupService) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	channels, err := s.repo.ListChannels(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing channels")
		return nil, err
	}
	for i := range channels {
		markup, err := s.GetChannelMarkup(ctx, channels[i].ID)
		if err != nil {
			return nil, err
		}
		channels[i].MarkupPercent = pricing.Format(markup)
	}
	return channels, nil
}
