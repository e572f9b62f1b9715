package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"price-manager/internal/entity"
)

var ErrChannelNotFound = errors.New("channel not found")

// ChannelRepository handles the interactions with the channels table.
type ChannelRepository struct {
	db *sql.DB
}

// NewChannelRepository creates a new instance of ChannelRepository.
func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db}
}

// ListChannels returns every channel ordered by name.
func (r *ChannelRepository) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	query := `SELECT id, name, slug, markup_percent FROM channels ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []entity.Channel{}
	for rows.Next() {
		var ch entity.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Slug, &ch.MarkupPercent); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// GetChannel fetches a single channel.
func (r *ChannelRepository) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	query := `SELECT id, name, slug, markup_percent FROM channels WHERE id = ?`
	var ch entity.Channel
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ch.ID, &ch.Name, &ch.Slug, &ch.MarkupPercent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, id)
		}
		return nil, err
	}
	return &ch, nil
}

// GetChannelMarkup fetches the markup percent of a channel as decimal text.
func (r *ChannelRepository) GetChannelMarkup(ctx context.Context, id string) (string, error) {
	query := `SELECT markup_percent FROM channels WHERE id = ?`
	var markup string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&markup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrChannelNotFound, id)
		}
		return "", err
	}
	return markup, nil
}

// SetChannelMarkup updates the markup percent of an existing channel.
func (r *ChannelRepository) SetChannelMarkup(ctx context.Context, id, markup string) error {
	query := `UPDATE channels SET markup_percent = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, markup, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows when the value is unchanged.
		_, err := r.GetChannel(ctx, id)
		return err
	}
	return nil
}

// CreateChannel inserts a channel or refreshes its name and slug. An empty
// name or slug defaults to the id on insert and keeps the stored value on
// update.
func (r *ChannelRepository) CreateChannel(ctx context.Context, ch *entity.Channel) error {
	query := `INSERT INTO channels (id, name, slug, markup_percent) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = IF(? = '', name, VALUES(name)), slug = IF(? = '', slug, VALUES(slug))`
	markup := ch.MarkupPercent
	if markup == "" {
		markup = "0"
	}
	_, err := r.db.ExecContext(ctx, query, ch.ID, orDefault(ch.Name, ch.ID), orDefault(ch.Slug, ch.ID), markup, ch.Name, ch.Slug)
	return err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
