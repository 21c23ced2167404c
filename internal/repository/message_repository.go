package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/propline/sms-dashboard/internal/models"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

// GetBySID returns the message with the given provider SID.
func (r *messageRepository) GetBySID(ctx context.Context, sid string) (*models.Message, error) {
	query := `
		SELECT id, sid, direction, phone_key, contact_name, body,
		       media_urls, local_media_paths, media_status,
		       timestamp, created_at, updated_at
		FROM messages
		WHERE sid = $1
	`

	var msg models.Message
	err := r.db.GetContext(ctx, &msg, query, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by sid: %w", err)
	}

	return &msg, nil
}

// Create inserts a message row. The unique index on sid is the real
// dedup enforcement; a collision here means another delivery of the
// same event won the race and the caller should treat the event as a
// duplicate.
func (r *messageRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (sid, direction, phone_key, contact_name, body,
		                      media_urls, local_media_paths, media_status,
		                      timestamp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, sid, direction, phone_key, contact_name, body,
		          media_urls, local_media_paths, media_status,
		          timestamp, created_at, updated_at
	`

	now := time.Now()
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = now
	}

	mediaURLs := msg.MediaURLs
	if mediaURLs == nil {
		mediaURLs = pq.StringArray{}
	}

	var created models.Message
	err := r.db.GetContext(ctx, &created, query,
		msg.SID, msg.Direction, msg.PhoneKey, msg.ContactName, msg.Body,
		mediaURLs, pq.StringArray{}, msg.MediaStatus,
		ts, now, now)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &created, nil
}

// UpdateLocalMedia attaches locally stored media paths. This is the
// second commit of the two-phase write; the message row already exists.
func (r *messageRepository) UpdateLocalMedia(ctx context.Context, id int64, paths []string, status models.MediaStatus) error {
	query := `
		UPDATE messages
		SET local_media_paths = $2,
		    media_status = $3,
		    updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, pq.StringArray(paths), status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update local media: %w", err)
	}

	return nil
}

// ListByPhoneKey returns the most recent messages of one conversation,
// newest first. This query replaces any in-memory history buffer: it is
// bounded and survives restarts.
func (r *messageRepository) ListByPhoneKey(ctx context.Context, phoneKey string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, sid, direction, phone_key, contact_name, body,
		       media_urls, local_media_paths, media_status,
		       timestamp, created_at, updated_at
		FROM messages
		WHERE phone_key = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	var messages []*models.Message
	err := r.db.SelectContext(ctx, &messages, query, phoneKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages by phone key: %w", err)
	}

	return messages, nil
}

// List returns messages newest first with pagination.
func (r *messageRepository) List(ctx context.Context, offset, limit int, direction models.Direction) ([]*models.Message, error) {
	query := `
		SELECT id, sid, direction, phone_key, contact_name, body,
		       media_urls, local_media_paths, media_status,
		       timestamp, created_at, updated_at
		FROM messages
		WHERE ($1 = '' OR direction = $1)
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`

	var messages []*models.Message
	err := r.db.SelectContext(ctx, &messages, query, string(direction), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// Count returns the number of messages matching direction (empty for all).
func (r *messageRepository) Count(ctx context.Context, direction models.Direction) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages WHERE ($1 = '' OR direction = $1)`

	err := r.db.GetContext(ctx, &count, query, string(direction))
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}
