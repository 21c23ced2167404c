package service

import (
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/config"
	"github.com/propline/sms-dashboard/internal/media"
	"github.com/propline/sms-dashboard/internal/notify"
	"github.com/propline/sms-dashboard/internal/repository"
)

type Service struct {
	Ingest    IngestService
	Message   MessageService
	Broadcast BroadcastService
	Scheduler SchedulerService
	Health    HealthService
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	fetcher := media.NewFetcher(
		cfg.Media.UploadDir,
		time.Duration(cfg.Media.FetchTimeout)*time.Second,
		cfg.Media.MaxBytes,
		logger,
	)

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}

	smsSender := notify.NewHTTPSMSSender(
		cfg.Provider.URL,
		cfg.Provider.AuthToken,
		cfg.Provider.FromNumber,
		time.Duration(cfg.Provider.Timeout)*time.Second,
		logger,
	)

	mailBreaker := NewCircuitBreaker("email-relay", &cfg.Email.CircuitBreaker, logger)
	smsBreaker := NewCircuitBreaker("sms-provider", &cfg.Provider.CircuitBreaker, logger)

	ingestService := NewIngestService(cfg, repo, redisClient, fetcher, emailSender, mailBreaker, logger)
	messageService := NewMessageService(repo, logger)
	broadcastService := NewBroadcastService(cfg, repo, redisClient, smsSender, smsBreaker, logger)
	schedulerService := NewSchedulerService(cfg, broadcastService, logger)
	healthService := NewHealthService(repo, redisClient, schedulerService, broadcastService, mailBreaker)

	return &Service{
		Ingest:    ingestService,
		Message:   messageService,
		Broadcast: broadcastService,
		Scheduler: schedulerService,
		Health:    healthService,
	}
}
