package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/repository"
)

type healthService struct {
	repo             repository.Repository
	redisClient      *redis.Client
	schedulerService SchedulerService
	broadcastService BroadcastService
	mailBreaker      *CircuitBreaker
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	schedulerService SchedulerService,
	broadcastService BroadcastService,
	mailBreaker *CircuitBreaker,
) HealthService {
	return &healthService{
		repo:             repo,
		redisClient:      redisClient,
		schedulerService: schedulerService,
		broadcastService: broadcastService,
		mailBreaker:      mailBreaker,
	}
}

func (s *healthService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status: models.HealthStatusHealthy,
	}

	if s.schedulerService.IsRunning() {
		status.DispatcherStatus = models.HealthDispatcherRunning
	} else {
		status.DispatcherStatus = models.HealthDispatcherStopped
	}

	status.DatabaseStatus = s.checkDatabaseHealth()
	status.RedisStatus = s.checkRedisHealth()

	smsState, _, _ := s.broadcastService.GetBreakerStatus()
	status.SMSBreakerState = smsState
	status.MailBreakerState = s.mailBreaker.GetState()

	if status.DatabaseStatus != models.HealthConnected || status.RedisStatus != models.HealthConnected {
		status.Status = models.HealthStatusUnhealthy
	}

	// An open breaker means notifications are degraded but ingestion
	// still works; the service stays reachable.
	if smsState == models.CircuitOpen || status.MailBreakerState == models.CircuitOpen {
		if status.Status == models.HealthStatusHealthy {
			status.Status = models.HealthStatusDegraded
		}
	}

	return status
}

func (s *healthService) checkDatabaseHealth() string {
	if err := s.repo.Ping(); err != nil {
		return models.HealthDisconnected
	}
	return models.HealthConnected
}

func (s *healthService) checkRedisHealth() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return models.HealthDisconnected
	}

	return models.HealthConnected
}
