package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/config"
	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/notify"
	"github.com/propline/sms-dashboard/internal/phone"
	"github.com/propline/sms-dashboard/internal/repository"
	"github.com/propline/sms-dashboard/internal/webhook"
)

const sidCacheTTL = 24 * time.Hour

// MediaFetcher downloads remote media URLs into local storage.
type MediaFetcher interface {
	FetchAll(ctx context.Context, messageID int64, urls []string) []string
	ResolvePath(relative string) string
}

type ingestService struct {
	cfg         *config.Config
	repo        repository.Repository
	redisClient *redis.Client
	fetcher     MediaFetcher
	emailSender notify.EmailSender
	mailBreaker *CircuitBreaker
	logger      *zap.Logger
}

func NewIngestService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	fetcher MediaFetcher,
	emailSender notify.EmailSender,
	mailBreaker *CircuitBreaker,
	logger *zap.Logger,
) IngestService {
	return &ingestService{
		cfg:         cfg,
		repo:        repo,
		redisClient: redisClient,
		fetcher:     fetcher,
		emailSender: emailSender,
		mailBreaker: mailBreaker,
		logger:      logger,
	}
}

// ProcessEvent runs the ingestion pipeline for one validated event:
// contact upsert, SID dedup-and-create, media fetch, email relay. Only
// contact and message commit failures return an error; media and
// notification failures are logged and absorbed.
func (s *ingestService) ProcessEvent(ctx context.Context, evt *webhook.Event) (*IngestResult, error) {
	key := phone.Key(evt.Phone)
	if phone.IsShort(key) {
		// Shortcodes and malformed numbers are accepted under a short
		// key rather than dropped; the provider already delivered them.
		s.logger.Warn("Phone key shorter than 10 digits",
			zap.String("phone", evt.Phone),
			zap.String("key", key))
	}

	contact, err := s.upsertContact(ctx, key, evt.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contact: %w", err)
	}

	if s.isKnownSID(ctx, evt.SID) {
		s.logger.Info("Duplicate event short-circuited by cache",
			zap.String("sid", evt.SID))
		return &IngestResult{Duplicate: true}, nil
	}

	if _, err := s.repo.Message().GetBySID(ctx, evt.SID); err == nil {
		s.cacheSID(ctx, evt.SID)
		return &IngestResult{Duplicate: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check message sid: %w", err)
	}

	urls := make([]string, 0, len(evt.Media))
	for _, m := range evt.Media {
		urls = append(urls, m.URL)
	}

	mediaStatus := models.MediaStatusNone
	if len(urls) > 0 {
		mediaStatus = models.MediaStatusPending
	}

	created, err := s.repo.Message().Create(ctx, &models.Message{
		SID:         evt.SID,
		Direction:   evt.Direction,
		PhoneKey:    key,
		ContactName: contact.Name,
		Body:        evt.Body,
		MediaURLs:   pq.StringArray(urls),
		MediaStatus: mediaStatus,
		Timestamp:   evt.Timestamp,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another delivery of the same SID won the insert race.
		s.cacheSID(ctx, evt.SID)
		return &IngestResult{Duplicate: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.cacheSID(ctx, evt.SID)

	result := &IngestResult{MessageID: created.ID}

	if evt.Direction != models.DirectionIncoming {
		return result, nil
	}

	var paths []string
	if len(urls) > 0 {
		paths = s.fetcher.FetchAll(ctx, created.ID, urls)
		result.MediaSaved = len(paths)

		if len(paths) > 0 {
			status := models.MediaStatusStored
			if len(paths) < len(urls) {
				status = models.MediaStatusPartial
			}
			if err := s.repo.Message().UpdateLocalMedia(ctx, created.ID, paths, status); err != nil {
				// The message row stands; operators recover media from logs.
				s.logger.Error("Failed to attach media paths",
					zap.Int64("messageID", created.ID),
					zap.Error(err))
			}
		}
	}

	s.notifyByEmail(ctx, contact, created, evt.Body, paths)

	return result, nil
}

// upsertContact creates the contact on first sight, preserving any
// existing display name. Insert races resolve inside the repository.
func (s *ingestService) upsertContact(ctx context.Context, key, rawPhone string) (*models.Contact, error) {
	contact, err := s.repo.Contact().GetByKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return s.repo.Contact().Create(ctx, key, rawPhone)
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// isKnownSID is a best-effort fast path; the unique index on sid remains
// the real dedup guarantee.
func (s *ingestService) isKnownSID(ctx context.Context, sid string) bool {
	if s.redisClient == nil {
		return false
	}
	exists, err := s.redisClient.Exists(ctx, "sid:"+sid).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

func (s *ingestService) cacheSID(ctx context.Context, sid string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Set(ctx, "sid:"+sid, time.Now().Format(time.RFC3339), sidCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache sid in Redis",
			zap.String("sid", sid),
			zap.Error(err))
	}
}

// notifyByEmail relays a newly stored incoming message. Delivery is
// best-effort and never changes the webhook response.
func (s *ingestService) notifyByEmail(ctx context.Context, contact *models.Contact, msg *models.Message, body string, paths []string) {
	notifyTo := s.cfg.Email.NotifyTo
	if notifyTo == "" {
		return
	}

	email := notify.EmailMessage{
		To:      notifyTo,
		Subject: fmt.Sprintf("New message from %s", contact.Name),
		Body:    composePlainBody(contact, body, len(paths)),
		HTML:    composeHTMLBody(contact, body, len(paths)),
	}

	for _, rel := range paths {
		full := s.fetcher.ResolvePath(rel)
		if _, err := os.Stat(full); err != nil {
			s.logger.Warn("Stored media missing at notify time, skipping attachment",
				zap.String("path", rel),
				zap.Error(err))
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			s.logger.Warn("Failed to read stored media for attachment",
				zap.String("path", rel),
				zap.Error(err))
			continue
		}
		email.Attachments = append(email.Attachments, notify.Attachment{
			Filename:    filepath.Base(rel),
			ContentType: contentTypeFor(rel),
			Content:     content,
		})
	}

	err := s.mailBreaker.Execute(ctx, func() error {
		return s.emailSender.Send(ctx, email)
	})
	if err != nil {
		s.logger.Error("Failed to send notification email",
			zap.Int64("messageID", msg.ID),
			zap.String("to", notifyTo),
			zap.Error(err))
	}
}

func composePlainBody(contact *models.Contact, body string, attachments int) string {
	text := fmt.Sprintf("From: %s (%s)\n\n%s", contact.Name, contact.PhoneKey, body)
	if attachments > 0 {
		text += fmt.Sprintf("\n\n%d attachment(s) included.", attachments)
	}
	return text
}

func composeHTMLBody(contact *models.Contact, body string, attachments int) string {
	htmlBody := fmt.Sprintf("<p><strong>From:</strong> %s (%s)</p><p>%s</p>",
		html.EscapeString(contact.Name),
		html.EscapeString(contact.PhoneKey),
		html.EscapeString(body))
	if attachments > 0 {
		htmlBody += fmt.Sprintf("<p><em>%d attachment(s) included.</em></p>", attachments)
	}
	return htmlBody
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
