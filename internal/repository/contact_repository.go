package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/propline/sms-dashboard/internal/models"
)

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

// GetByKey returns the contact for a normalized phone key.
func (r *contactRepository) GetByKey(ctx context.Context, phoneKey string) (*models.Contact, error) {
	query := `
		SELECT id, phone_key, name, created_at, updated_at
		FROM contacts
		WHERE phone_key = $1
	`

	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, query, phoneKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by key: %w", err)
	}

	return &contact, nil
}

// Create inserts a contact row. Two events for an unseen key can race
// the existence check; the loser re-reads the winner's row so the name
// written first is preserved.
func (r *contactRepository) Create(ctx context.Context, phoneKey, name string) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (phone_key, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, phone_key, name, created_at, updated_at
	`

	now := time.Now()

	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, query, phoneKey, name, now, now)
	if isUniqueViolation(err) {
		return r.GetByKey(ctx, phoneKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return &contact, nil
}

// List returns all contacts ordered by display name.
func (r *contactRepository) List(ctx context.Context) ([]*models.Contact, error) {
	query := `
		SELECT id, phone_key, name, created_at, updated_at
		FROM contacts
		ORDER BY name ASC
	`

	var contacts []*models.Contact
	err := r.db.SelectContext(ctx, &contacts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}
