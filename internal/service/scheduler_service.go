package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/config"
	"github.com/propline/sms-dashboard/internal/scheduler"
)

type schedulerService struct {
	scheduler *scheduler.Scheduler
	broadcast BroadcastService
	logger    *zap.Logger
}

// NewSchedulerService wires the dispatcher loop to broadcast dispatch.
func NewSchedulerService(
	cfg *config.Config,
	broadcast BroadcastService,
	logger *zap.Logger,
) SchedulerService {
	interval := time.Duration(cfg.Dispatcher.IntervalMinutes) * time.Minute

	svc := &schedulerService{
		broadcast: broadcast,
		logger:    logger,
	}

	svc.scheduler = scheduler.NewScheduler(logger, interval, svc.executeDispatchTask)
	return svc
}

func (s *schedulerService) Start() error {
	ctx := context.Background()
	return s.scheduler.Start(ctx)
}

func (s *schedulerService) Stop() error {
	return s.scheduler.Stop()
}

func (s *schedulerService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *schedulerService) executeDispatchTask(ctx context.Context) error {
	return s.broadcast.DispatchPending(ctx)
}
