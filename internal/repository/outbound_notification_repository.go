package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/propline/sms-dashboard/internal/models"
)

type outboundNotificationRepository struct {
	db *sqlx.DB
}

func NewOutboundNotificationRepository(db *sqlx.DB) OutboundNotificationRepository {
	return &outboundNotificationRepository{
		db: db,
	}
}

// Enqueue inserts a pending broadcast notification.
func (r *outboundNotificationRepository) Enqueue(ctx context.Context, phoneKey, body string) (*models.OutboundNotification, error) {
	query := `
		INSERT INTO outbound_notifications (phone_key, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, phone_key, body, status, provider_id, error, created_at, sent_at, updated_at
	`

	now := time.Now()

	var notification models.OutboundNotification
	err := r.db.GetContext(ctx, &notification, query, phoneKey, body, models.NotificationStatusPending, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue notification: %w", err)
	}

	return &notification, nil
}

// GetPending retrieves pending notifications oldest first.
func (r *outboundNotificationRepository) GetPending(ctx context.Context, limit int) ([]*models.OutboundNotification, error) {
	query := `
		SELECT id, phone_key, body, status, provider_id, error, created_at, sent_at, updated_at
		FROM outbound_notifications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	var notifications []*models.OutboundNotification
	err := r.db.SelectContext(ctx, &notifications, query, models.NotificationStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending notifications: %w", err)
	}

	return notifications, nil
}

// MarkDispatched records a successful provider send.
func (r *outboundNotificationRepository) MarkDispatched(ctx context.Context, id int64, providerID string) error {
	query := `
		UPDATE outbound_notifications
		SET status = $2,
		    provider_id = $3,
		    error = NULL,
		    sent_at = $4,
		    updated_at = $4
		WHERE id = $1
	`

	now := time.Now()
	pid := sql.NullString{String: providerID, Valid: providerID != ""}

	_, err := r.db.ExecContext(ctx, query, id, models.NotificationStatusSent, pid, now)
	if err != nil {
		return fmt.Errorf("failed to mark notification dispatched: %w", err)
	}

	return nil
}

// MarkFailed records a dispatch failure.
func (r *outboundNotificationRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE outbound_notifications
		SET status = $2,
		    error = $3,
		    updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, models.NotificationStatusFailed,
		sql.NullString{String: errMsg, Valid: errMsg != ""}, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}
