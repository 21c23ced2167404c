package models

import "time"

// WebhookAck is the plain success response for the provider webhook.
type WebhookAck struct {
	Status     string `json:"status"`
	MessageID  int64  `json:"message_id,omitempty"`
	MediaSaved int    `json:"media_saved,omitempty"`
}

const (
	WebhookStatusProcessed = "processed"
	WebhookStatusDuplicate = "duplicate"
)

// ErrorResponse is the common error envelope.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// MessageListResponse is a paginated message listing.
type MessageListResponse struct {
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// ConversationResponse is the recent message history for one phone key.
type ConversationResponse struct {
	PhoneKey string    `json:"phone_key"`
	Contact  *Contact  `json:"contact,omitempty"`
	Messages []Message `json:"messages"`
}

// BroadcastRequest enqueues an SMS broadcast. Empty PhoneKeys targets
// every known contact.
type BroadcastRequest struct {
	Body      string   `json:"body"`
	PhoneKeys []string `json:"phone_keys,omitempty"`
}

// BroadcastResponse reports how many notifications were queued.
type BroadcastResponse struct {
	Queued int `json:"queued"`
}

// DispatcherResponse reports dispatcher start/stop outcomes.
type DispatcherResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	DispatcherStatusStarted = "started"
	DispatcherStatusStopped = "stopped"
)

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status           string       `json:"status"`
	Timestamp        time.Time    `json:"timestamp"`
	DispatcherStatus string       `json:"dispatcher_status,omitempty"`
	DatabaseStatus   string       `json:"database_status,omitempty"`
	RedisStatus      string       `json:"redis_status,omitempty"`
	SMSBreakerState  CircuitState `json:"sms_breaker_state,omitempty"`
	MailBreakerState CircuitState `json:"mail_breaker_state,omitempty"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"

	HealthDispatcherRunning = "running"
	HealthDispatcherStopped = "stopped"

	HealthConnected    = "connected"
	HealthDisconnected = "disconnected"
)
