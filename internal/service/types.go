package service

import "github.com/propline/sms-dashboard/internal/models"

// IngestResult is the terminal outcome of one webhook event.
type IngestResult struct {
	Duplicate  bool
	MessageID  int64
	MediaSaved int
}

type HealthStatus struct {
	Status           string              `json:"status"`
	DispatcherStatus string              `json:"dispatcher_status"`
	DatabaseStatus   string              `json:"database_status"`
	RedisStatus      string              `json:"redis_status"`
	SMSBreakerState  models.CircuitState `json:"sms_breaker_state,omitempty"`
	MailBreakerState models.CircuitState `json:"mail_breaker_state,omitempty"`
}
