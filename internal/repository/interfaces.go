package repository

import (
	"context"

	"github.com/propline/sms-dashboard/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping() error

	// Contact returns contact repository
	Contact() ContactRepository

	// Message returns message repository
	Message() MessageRepository

	// Notification returns outbound notification repository
	Notification() OutboundNotificationRepository
}

// ContactRepository interface defines contact directory operations.
type ContactRepository interface {
	// GetByKey returns the contact for a phone key or ErrNotFound.
	GetByKey(ctx context.Context, phoneKey string) (*models.Contact, error)

	// Create inserts a contact. When another request wins the insert
	// race the existing row is returned instead of an error; the stored
	// name is never overwritten.
	Create(ctx context.Context, phoneKey, name string) (*models.Contact, error)

	// List returns all contacts ordered by name.
	List(ctx context.Context) ([]*models.Contact, error)
}

// MessageRepository interface defines message store operations.
type MessageRepository interface {
	// GetBySID returns the message with the given provider SID or ErrNotFound.
	GetBySID(ctx context.Context, sid string) (*models.Message, error)

	// Create inserts a message; a SID collision returns ErrDuplicate.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)

	// UpdateLocalMedia attaches downloaded media paths in a second commit.
	UpdateLocalMedia(ctx context.Context, id int64, paths []string, status models.MediaStatus) error

	// ListByPhoneKey returns the most recent messages for a conversation,
	// newest first.
	ListByPhoneKey(ctx context.Context, phoneKey string, limit int) ([]*models.Message, error)

	// List returns messages newest first with pagination; direction may
	// be empty to include both.
	List(ctx context.Context, offset, limit int, direction models.Direction) ([]*models.Message, error)

	// Count returns the total number of messages matching direction
	// (empty for all).
	Count(ctx context.Context, direction models.Direction) (int64, error)
}

// OutboundNotificationRepository defines the broadcast dispatch queue.
type OutboundNotificationRepository interface {
	Enqueue(ctx context.Context, phoneKey, body string) (*models.OutboundNotification, error)
	GetPending(ctx context.Context, limit int) ([]*models.OutboundNotification, error)
	MarkDispatched(ctx context.Context, id int64, providerID string) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}
