// Package repository provides the Postgres persistence layer.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("repository: duplicate")
)

const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// conflict. Concurrent webhook deliveries race on contact keys and SIDs;
// the constraint is the authoritative arbiter.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db           *sqlx.DB
	contact      ContactRepository
	message      MessageRepository
	notification OutboundNotificationRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:           db,
		contact:      NewContactRepository(db),
		message:      NewMessageRepository(db),
		notification: NewOutboundNotificationRepository(db),
	}
}

// Contact returns the contact repository.
func (r *repositoryImpl) Contact() ContactRepository {
	return r.contact
}

// Message returns the message repository.
func (r *repositoryImpl) Message() MessageRepository {
	return r.message
}

// Notification returns the outbound notification repository.
func (r *repositoryImpl) Notification() OutboundNotificationRepository {
	return r.notification
}

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
