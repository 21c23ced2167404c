package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/config"
	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/notify"
	"github.com/propline/sms-dashboard/internal/repository"
)

var ErrEmptyBroadcast = errors.New("service: broadcast body is empty")

type broadcastService struct {
	cfg         *config.Config
	repo        repository.Repository
	redisClient *redis.Client
	smsSender   notify.SMSSender
	smsBreaker  *CircuitBreaker
	logger      *zap.Logger
}

func NewBroadcastService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	smsSender notify.SMSSender,
	smsBreaker *CircuitBreaker,
	logger *zap.Logger,
) BroadcastService {
	return &broadcastService{
		cfg:         cfg,
		repo:        repo,
		redisClient: redisClient,
		smsSender:   smsSender,
		smsBreaker:  smsBreaker,
		logger:      logger,
	}
}

// Broadcast enqueues one notification per target phone key. With no
// explicit keys every known contact is targeted.
func (s *broadcastService) Broadcast(ctx context.Context, body string, keys []string) (int, error) {
	if body == "" {
		return 0, ErrEmptyBroadcast
	}

	if len(keys) == 0 {
		contacts, err := s.repo.Contact().List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list contacts: %w", err)
		}
		for _, c := range contacts {
			keys = append(keys, c.PhoneKey)
		}
	}

	queued := 0
	for _, key := range keys {
		if _, err := s.repo.Notification().Enqueue(ctx, key, body); err != nil {
			return queued, fmt.Errorf("failed to enqueue notification for %s: %w", key, err)
		}
		queued++
	}

	s.logger.Info("Broadcast queued", zap.Int("count", queued))
	return queued, nil
}

// DispatchPending sends a batch of queued notifications. Per-row
// failures are recorded and the batch continues.
func (s *broadcastService) DispatchPending(ctx context.Context) error {
	pending, err := s.repo.Notification().GetPending(ctx, s.cfg.Dispatcher.BatchSize)
	if err != nil {
		s.logger.Error("Failed to get pending notifications", zap.Error(err))
		return fmt.Errorf("failed to get pending notifications: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	s.logger.Info("Dispatching pending notifications", zap.Int("count", len(pending)))

	for _, n := range pending {
		if err := s.dispatchOne(ctx, n); err != nil {
			s.logger.Error("Failed to dispatch notification",
				zap.Int64("notificationID", n.ID),
				zap.String("phoneKey", n.PhoneKey),
				zap.Error(err))
			continue
		}
	}

	return nil
}

// dispatchOne sends a single notification through the circuit breaker
// and records the outcome, including an outgoing message row so the
// conversation view shows what was sent.
func (s *broadcastService) dispatchOne(ctx context.Context, n *models.OutboundNotification) error {
	var providerID string

	err := s.smsBreaker.Execute(ctx, func() error {
		var sendErr error
		providerID, sendErr = s.smsSender.Send(ctx, n.PhoneKey, n.Body)
		return sendErr
	})
	if err != nil {
		errMsg := err.Error()
		if markErr := s.repo.Notification().MarkFailed(ctx, n.ID, errMsg); markErr != nil {
			s.logger.Error("Failed to mark notification failed",
				zap.Int64("notificationID", n.ID),
				zap.Error(markErr))
		}
		return err
	}

	if err := s.repo.Notification().MarkDispatched(ctx, n.ID, providerID); err != nil {
		return fmt.Errorf("failed to mark notification dispatched: %w", err)
	}

	s.recordOutgoingMessage(ctx, n, providerID)
	s.cacheProviderID(ctx, n.ID, providerID)

	s.logger.Info("Notification dispatched",
		zap.Int64("notificationID", n.ID),
		zap.String("providerID", providerID),
		zap.String("circuitBreakerState", string(s.smsBreaker.GetState())))

	return nil
}

// recordOutgoingMessage mirrors the dispatched SMS into the message
// store so conversations include outbound traffic. Best-effort: the
// notification row already holds the authoritative status.
func (s *broadcastService) recordOutgoingMessage(ctx context.Context, n *models.OutboundNotification, providerID string) {
	name := n.PhoneKey
	if contact, err := s.repo.Contact().GetByKey(ctx, n.PhoneKey); err == nil {
		name = contact.Name
	}

	_, err := s.repo.Message().Create(ctx, &models.Message{
		SID:         providerID,
		Direction:   models.DirectionOutgoing,
		PhoneKey:    n.PhoneKey,
		ContactName: name,
		Body:        n.Body,
		MediaStatus: models.MediaStatusNone,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		s.logger.Warn("Failed to record outgoing message",
			zap.Int64("notificationID", n.ID),
			zap.Error(err))
	}
}

func (s *broadcastService) cacheProviderID(ctx context.Context, id int64, providerID string) {
	if s.redisClient == nil || providerID == "" {
		return
	}

	cacheKey := fmt.Sprintf("notification:%s", providerID)
	cacheValue := fmt.Sprintf("%d:%s", id, time.Now().Format(time.RFC3339))

	if err := s.redisClient.Set(ctx, cacheKey, cacheValue, 24*time.Hour).Err(); err != nil {
		s.logger.Warn("Failed to cache provider id in Redis",
			zap.String("providerID", providerID),
			zap.Error(err))
	}
}

func (s *broadcastService) GetBreakerStatus() (models.CircuitState, uint32, uint32) {
	state := s.smsBreaker.GetState()
	requests, failures := s.smsBreaker.GetCounts()
	return state, requests, failures
}
