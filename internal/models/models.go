// Package models defines data structures used throughout the application.
package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Direction indicates whether a message was received by the monitored
// line or sent from it.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// MediaStatus tracks the second phase of the two-phase message write:
// a message is inserted first, then updated once media downloads settle.
type MediaStatus string

const (
	MediaStatusNone    MediaStatus = "none"
	MediaStatusPending MediaStatus = "pending"
	MediaStatusStored  MediaStatus = "stored"
	MediaStatusPartial MediaStatus = "partial"
)

// NotificationStatus tracks outbound broadcast rows.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// CircuitState mirrors gobreaker states for API responses.
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitHalfOpen CircuitState = "half_open"
	CircuitOpen     CircuitState = "open"
)

// Contact maps a normalized phone key to a display name.
type Contact struct {
	ID        int64     `db:"id" json:"id"`
	PhoneKey  string    `db:"phone_key" json:"phone_key"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Message is one inbound or outbound message, keyed internally by ID and
// externally by the provider-assigned SID.
type Message struct {
	ID              int64          `db:"id" json:"id"`
	SID             string         `db:"sid" json:"sid"`
	Direction       Direction      `db:"direction" json:"direction"`
	PhoneKey        string         `db:"phone_key" json:"phone_key"`
	ContactName     string         `db:"contact_name" json:"contact_name"`
	Body            string         `db:"body" json:"body"`
	MediaURLs       pq.StringArray `db:"media_urls" json:"media_urls"`
	LocalMediaPaths pq.StringArray `db:"local_media_paths" json:"local_media_paths"`
	MediaStatus     MediaStatus    `db:"media_status" json:"media_status"`
	Timestamp       time.Time      `db:"timestamp" json:"timestamp"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// OutboundNotification is one queued broadcast SMS awaiting dispatch.
type OutboundNotification struct {
	ID         int64              `db:"id" json:"id"`
	PhoneKey   string             `db:"phone_key" json:"phone_key"`
	Body       string             `db:"body" json:"body"`
	Status     NotificationStatus `db:"status" json:"status"`
	ProviderID sql.NullString     `db:"provider_id" json:"provider_id,omitempty"`
	Error      sql.NullString     `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	SentAt     sql.NullTime       `db:"sent_at" json:"sent_at,omitempty"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}
