package service

import (
	"context"

	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/webhook"
)

// IngestService processes provider webhook events.
type IngestService interface {
	// ProcessEvent runs one event through the ingestion pipeline. It is
	// safe to call with the same event repeatedly; duplicates are
	// reported in the result, not as errors. An error return means a
	// primary-entity commit failed and the webhook must answer 500.
	ProcessEvent(ctx context.Context, evt *webhook.Event) (*IngestResult, error)
}

// MessageService exposes read paths over the message store.
type MessageService interface {
	GetConversation(ctx context.Context, phoneKey string, limit int) (*models.ConversationResponse, error)
	ListMessages(ctx context.Context, page, limit int, direction models.Direction) (*models.MessageListResponse, error)
}

// BroadcastService queues and dispatches outbound SMS notifications.
type BroadcastService interface {
	// Broadcast enqueues body for the given phone keys, or for every
	// known contact when keys is empty. Returns the number queued.
	Broadcast(ctx context.Context, body string, keys []string) (int, error)

	// DispatchPending sends a batch of queued notifications through the
	// SMS transport.
	DispatchPending(ctx context.Context) error

	// GetBreakerStatus reports the SMS circuit breaker.
	GetBreakerStatus() (state models.CircuitState, requests, failures uint32)
}

// SchedulerService controls the broadcast dispatcher loop.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// HealthService reports component health.
type HealthService interface {
	GetHealth() *HealthStatus
}
