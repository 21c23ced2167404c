// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/middleware"
	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/scheduler"
	"github.com/propline/sms-dashboard/internal/service"
	"github.com/propline/sms-dashboard/internal/webhook"
)

const (
	errorCodeInvalidEvent             = "INVALID_EVENT"
	errorCodeInvalidRequest           = "INVALID_REQUEST"
	errorCodeDispatcherAlreadyRunning = "DISPATCHER_ALREADY_RUNNING"
	errorCodeDispatcherNotRunning     = "DISPATCHER_NOT_RUNNING"
)

const (
	errorMessageInvalidEvent        = "Event is missing an identifier or phone number"
	errorMessageInvalidBody         = "Request body could not be decoded"
	errorMessageIngestFailed        = "Failed to persist event"
	errorMessageFailedConversation  = "Failed to retrieve conversation"
	errorMessageFailedMessages      = "Failed to retrieve messages"
	errorMessageFailedBroadcast     = "Failed to queue broadcast"
	errorMessageEmptyBroadcast      = "Broadcast body must not be empty"
	errorMessageDispatcherRunning   = "Dispatcher is already running"
	errorMessageDispatcherStopped   = "Dispatcher is not running"
	errorMessageFailedStart         = "Failed to start dispatcher"
	errorMessageFailedStop          = "Failed to stop dispatcher"
	dispatcherMessageStarted        = "Dispatcher started successfully"
	dispatcherMessageStopped        = "Dispatcher stopped successfully"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleWebhook ingests one provider event. Malformed events are
// rejected before any database mutation; duplicate SIDs short-circuit
// to success.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageInvalidBody)
		return
	}

	evt, err := webhook.ParseEvent(body)
	if err != nil {
		if errors.Is(err, webhook.ErrMissingSID) || errors.Is(err, webhook.ErrMissingPhone) {
			h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidEvent, errorMessageInvalidEvent)
			return
		}
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageInvalidBody)
		return
	}

	result, err := h.service.Ingest.ProcessEvent(r.Context(), evt)
	if err != nil {
		h.logger.Error("Failed to process webhook event",
			zap.String("request_id", requestID),
			zap.String("sid", evt.SID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageIngestFailed)
		return
	}

	ack := models.WebhookAck{Status: models.WebhookStatusProcessed}
	if result.Duplicate {
		ack.Status = models.WebhookStatusDuplicate
	} else {
		ack.MessageID = result.MessageID
		ack.MediaSaved = result.MediaSaved
	}

	render.JSON(w, r, ack)
}

// GetConversation returns the recent message history for one phone key.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	phoneKey := chi.URLParam(r, "phoneKey")

	limit := defaultConversationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxConversationLimit {
			limit = parsed
		}
	}

	result, err := h.service.Message.GetConversation(r.Context(), phoneKey, limit)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to get conversation",
			zap.String("request_id", requestID),
			zap.String("phone_key", phoneKey),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedConversation)
		return
	}

	render.JSON(w, r, result)
}

// ListMessages returns messages newest first with pagination.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 20

	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= 100 {
			limit = parsed
		}
	}

	var direction models.Direction
	switch r.URL.Query().Get("direction") {
	case string(models.DirectionIncoming):
		direction = models.DirectionIncoming
	case string(models.DirectionOutgoing):
		direction = models.DirectionOutgoing
	}

	result, err := h.service.Message.ListMessages(r.Context(), page, limit, direction)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to list messages",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedMessages)
		return
	}

	render.JSON(w, r, result)
}

// CreateBroadcast queues an SMS broadcast for dispatch.
func (h *Handler) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	var req models.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageInvalidBody)
		return
	}

	queued, err := h.service.Broadcast.Broadcast(r.Context(), req.Body, req.PhoneKeys)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBroadcast) {
			h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageEmptyBroadcast)
			return
		}

		requestID := middleware.GetRequestID(r.Context())
		h.logger.Error("Failed to queue broadcast",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedBroadcast)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, models.BroadcastResponse{Queued: queued})
}

// StartDispatcher starts the broadcast dispatcher loop.
func (h *Handler) StartDispatcher(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.service.Scheduler.Start()
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerAlreadyRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeDispatcherAlreadyRunning, errorMessageDispatcherRunning)
			return
		}

		h.logger.Error("Failed to start dispatcher",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedStart)
		return
	}

	render.JSON(w, r, models.DispatcherResponse{
		Status:  models.DispatcherStatusStarted,
		Message: dispatcherMessageStarted,
	})
}

// StopDispatcher stops the broadcast dispatcher loop.
func (h *Handler) StopDispatcher(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.service.Scheduler.Stop()
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeDispatcherNotRunning, errorMessageDispatcherStopped)
			return
		}

		h.logger.Error("Failed to stop dispatcher",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedStop)
		return
	}

	render.JSON(w, r, models.DispatcherResponse{
		Status:  models.DispatcherStatusStopped,
		Message: dispatcherMessageStopped,
	})
}

// HealthCheck reports component health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	response := models.HealthResponse{
		Status:           health.Status,
		Timestamp:        time.Now(),
		DispatcherStatus: health.DispatcherStatus,
		DatabaseStatus:   health.DatabaseStatus,
		RedisStatus:      health.RedisStatus,
		SMSBreakerState:  health.SMSBreakerState,
		MailBreakerState: health.MailBreakerState,
	}

	if health.Status == models.HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, models.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Timestamp: func() *time.Time {
			t := time.Now()
			return &t
		}(),
	})
}
