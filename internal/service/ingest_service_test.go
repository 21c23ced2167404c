package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/config"
	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/notify"
	"github.com/propline/sms-dashboard/internal/repository"
	"github.com/propline/sms-dashboard/internal/repository/mocks"
	"github.com/propline/sms-dashboard/internal/service"
	"github.com/propline/sms-dashboard/internal/webhook"
)

type fakeFetcher struct {
	dir     string
	paths   []string
	fetched [][]string
}

func (f *fakeFetcher) FetchAll(_ context.Context, _ int64, urls []string) []string {
	f.fetched = append(f.fetched, urls)
	return f.paths
}

func (f *fakeFetcher) ResolvePath(relative string) string {
	return filepath.Join(f.dir, relative)
}

type fakeEmailSender struct {
	err  error
	sent []notify.EmailMessage
}

func (f *fakeEmailSender) Send(_ context.Context, msg notify.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testIngestConfig(notifyTo string) *config.Config {
	return &config.Config{
		Email: config.EmailConfig{
			NotifyTo: notifyTo,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests:      3,
				Interval:         60,
				Timeout:          60,
				FailureRatio:     0.6,
				ConsecutiveFails: 5,
			},
		},
	}
}

func newIngestService(
	cfg *config.Config,
	repo repository.Repository,
	fetcher service.MediaFetcher,
	emailSender notify.EmailSender,
) service.IngestService {
	logger := zap.NewNop()
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:9999", // Non-existent server for testing
	})
	mailBreaker := service.NewCircuitBreaker("email-relay", &cfg.Email.CircuitBreaker, logger)
	return service.NewIngestService(cfg, repo, redisClient, fetcher, emailSender, mailBreaker, logger)
}

func incomingEvent(sid, phone, body string, media ...webhook.Media) *webhook.Event {
	return &webhook.Event{
		Type:      "message.received",
		SID:       sid,
		Direction: models.DirectionIncoming,
		Phone:     phone,
		Body:      body,
		Media:     media,
	}
}

func TestIngestService_ProcessEvent_NewMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(nil, repository.ErrNotFound)
	mockContactRepo.EXPECT().
		Create(gomock.Any(), "7025550123", "+17025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "+17025550123"}, nil)

	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM100").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			assert.Equal(t, "SM100", msg.SID)
			assert.Equal(t, models.DirectionIncoming, msg.Direction)
			assert.Equal(t, "7025550123", msg.PhoneKey)
			assert.Equal(t, "+17025550123", msg.ContactName)
			assert.Equal(t, "Hello", msg.Body)
			assert.Equal(t, models.MediaStatusNone, msg.MediaStatus)
			created := *msg
			created.ID = 42
			return &created, nil
		})

	fetcher := &fakeFetcher{}
	sender := &fakeEmailSender{}
	svc := newIngestService(testIngestConfig(""), mockRepo, fetcher, sender)

	result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM100", "+17025550123", "Hello"))

	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, int64(42), result.MessageID)
	assert.Equal(t, 0, result.MediaSaved)
	assert.Empty(t, fetcher.fetched)
	assert.Empty(t, sender.sent)
}

func TestIngestService_ProcessEvent_ExistingContactNamePreserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	// A renamed contact keeps its display name on later deliveries.
	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice Chen"}, nil)

	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM101").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			assert.Equal(t, "Alice Chen", msg.ContactName)
			created := *msg
			created.ID = 43
			return &created, nil
		})

	svc := newIngestService(testIngestConfig(""), mockRepo, &fakeFetcher{}, &fakeEmailSender{})

	result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM101", "+17025550123", "Again"))

	require.NoError(t, err)
	assert.Equal(t, int64(43), result.MessageID)
}

func TestIngestService_ProcessEvent_DuplicateSID(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockContactRepository, *mocks.MockMessageRepository)
	}{
		{
			name: "duplicate found by lookup",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
				messageRepo.EXPECT().
					GetBySID(gomock.Any(), "SM200").
					Return(&models.Message{ID: 10, SID: "SM200"}, nil)
			},
		},
		{
			name: "duplicate loses the insert race",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
				messageRepo.EXPECT().
					GetBySID(gomock.Any(), "SM200").
					Return(nil, repository.ErrNotFound)
				messageRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, repository.ErrDuplicate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockContactRepo := mocks.NewMockContactRepository(ctrl)
			mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

			mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
			mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()
			tt.setupMocks(mockContactRepo, mockMessageRepo)

			fetcher := &fakeFetcher{}
			sender := &fakeEmailSender{}
			svc := newIngestService(testIngestConfig("ops@propline.example"), mockRepo, fetcher, sender)

			result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM200", "+17025550123", "dup"))

			require.NoError(t, err)
			assert.True(t, result.Duplicate)
			assert.Zero(t, result.MessageID)
			// Duplicates never refetch media or renotify.
			assert.Empty(t, fetcher.fetched)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestIngestService_ProcessEvent_MediaStatuses(t *testing.T) {
	tests := []struct {
		name           string
		fetchedPaths   []string
		expectedStatus models.MediaStatus
		expectedSaved  int
		expectUpdate   bool
	}{
		{
			name:           "all media stored",
			fetchedPaths:   []string{"50-0-a.jpg", "50-1-b.jpg"},
			expectedStatus: models.MediaStatusStored,
			expectedSaved:  2,
			expectUpdate:   true,
		},
		{
			name:           "partial media stored",
			fetchedPaths:   []string{"50-0-a.jpg"},
			expectedStatus: models.MediaStatusPartial,
			expectedSaved:  1,
			expectUpdate:   true,
		},
		{
			name:          "no media stored",
			fetchedPaths:  nil,
			expectedSaved: 0,
			expectUpdate:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockContactRepo := mocks.NewMockContactRepository(ctrl)
			mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

			mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
			mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

			mockContactRepo.EXPECT().
				GetByKey(gomock.Any(), "7025550123").
				Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
			mockMessageRepo.EXPECT().
				GetBySID(gomock.Any(), "SM300").
				Return(nil, repository.ErrNotFound)
			mockMessageRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
					assert.Equal(t, models.MediaStatusPending, msg.MediaStatus)
					created := *msg
					created.ID = 50
					return &created, nil
				})

			if tt.expectUpdate {
				mockMessageRepo.EXPECT().
					UpdateLocalMedia(gomock.Any(), int64(50), tt.fetchedPaths, tt.expectedStatus).
					Return(nil)
			}

			fetcher := &fakeFetcher{paths: tt.fetchedPaths}
			svc := newIngestService(testIngestConfig(""), mockRepo, fetcher, &fakeEmailSender{})

			evt := incomingEvent("SM300", "+17025550123", "photos",
				webhook.Media{URL: "https://cdn.example.com/a.jpg", Type: "image/jpeg"},
				webhook.Media{URL: "https://cdn.example.com/b.jpg", Type: "image/jpeg"},
			)
			result, err := svc.ProcessEvent(context.Background(), evt)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSaved, result.MediaSaved)
			require.Len(t, fetcher.fetched, 1)
			assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, fetcher.fetched[0])
		})
	}
}

func TestIngestService_ProcessEvent_MediaUpdateFailureAbsorbed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM301").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			created := *msg
			created.ID = 51
			return &created, nil
		})
	mockMessageRepo.EXPECT().
		UpdateLocalMedia(gomock.Any(), int64(51), gomock.Any(), models.MediaStatusStored).
		Return(errors.New("database error"))

	fetcher := &fakeFetcher{paths: []string{"51-0-a.jpg"}}
	svc := newIngestService(testIngestConfig(""), mockRepo, fetcher, &fakeEmailSender{})

	evt := incomingEvent("SM301", "+17025550123", "photo",
		webhook.Media{URL: "https://cdn.example.com/a.jpg", Type: "image/jpeg"},
	)
	result, err := svc.ProcessEvent(context.Background(), evt)

	// The message row already committed; a failed media update does not
	// turn the webhook into an error.
	require.NoError(t, err)
	assert.Equal(t, int64(51), result.MessageID)
	assert.Equal(t, 1, result.MediaSaved)
}

func TestIngestService_ProcessEvent_OutgoingSkipsMediaAndEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM400").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			created := *msg
			created.ID = 60
			return &created, nil
		})

	fetcher := &fakeFetcher{paths: []string{"60-0-a.jpg"}}
	sender := &fakeEmailSender{}
	svc := newIngestService(testIngestConfig("ops@propline.example"), mockRepo, fetcher, sender)

	evt := &webhook.Event{
		Type:      "message.sent",
		SID:       "SM400",
		Direction: models.DirectionOutgoing,
		Phone:     "+17025550123",
		Body:      "reply",
		Media:     []webhook.Media{{URL: "https://cdn.example.com/a.jpg"}},
	}
	result, err := svc.ProcessEvent(context.Background(), evt)

	require.NoError(t, err)
	assert.Equal(t, int64(60), result.MessageID)
	assert.Equal(t, 0, result.MediaSaved)
	assert.Empty(t, fetcher.fetched)
	assert.Empty(t, sender.sent)
}

func TestIngestService_ProcessEvent_ShortPhoneKeyAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "88811").
		Return(nil, repository.ErrNotFound)
	mockContactRepo.EXPECT().
		Create(gomock.Any(), "88811", "88811").
		Return(&models.Contact{ID: 2, PhoneKey: "88811", Name: "88811"}, nil)
	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM500").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			assert.Equal(t, "88811", msg.PhoneKey)
			created := *msg
			created.ID = 70
			return &created, nil
		})

	svc := newIngestService(testIngestConfig(""), mockRepo, &fakeFetcher{}, &fakeEmailSender{})

	result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM500", "88811", "shortcode"))

	require.NoError(t, err)
	assert.Equal(t, int64(70), result.MessageID)
}

func TestIngestService_ProcessEvent_EmailNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice Chen"}, nil)
	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM600").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			created := *msg
			created.ID = 80
			return &created, nil
		})
	mockMessageRepo.EXPECT().
		UpdateLocalMedia(gomock.Any(), int64(80), gomock.Any(), models.MediaStatusPartial).
		Return(nil)

	dir := t.TempDir()
	// One stored file on disk, one path pointing nowhere.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "80-0-x.jpg"), []byte("jpeg"), 0o644))

	fetcher := &fakeFetcher{
		dir:   dir,
		paths: []string{"80-0-x.jpg", "80-1-gone.jpg"},
	}
	sender := &fakeEmailSender{}
	svc := newIngestService(testIngestConfig("ops@propline.example"), mockRepo, fetcher, sender)

	evt := incomingEvent("SM600", "+17025550123", "leaky faucet",
		webhook.Media{URL: "https://cdn.example.com/a.jpg", Type: "image/jpeg"},
		webhook.Media{URL: "https://cdn.example.com/b.jpg", Type: "image/jpeg"},
		webhook.Media{URL: "https://cdn.example.com/c.jpg", Type: "image/jpeg"},
	)
	result, err := svc.ProcessEvent(context.Background(), evt)

	require.NoError(t, err)
	assert.Equal(t, 2, result.MediaSaved)

	require.Len(t, sender.sent, 1)
	email := sender.sent[0]
	assert.Equal(t, "ops@propline.example", email.To)
	assert.Equal(t, "New message from Alice Chen", email.Subject)
	assert.Contains(t, email.Body, "leaky faucet")
	assert.Contains(t, email.HTML, "leaky faucet")
	// The missing file is skipped rather than failing the notification.
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "80-0-x.jpg", email.Attachments[0].Filename)
	assert.Equal(t, "image/jpeg", email.Attachments[0].ContentType)
	assert.Equal(t, []byte("jpeg"), email.Attachments[0].Content)
}

func TestIngestService_ProcessEvent_EmailFailureAbsorbed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockContactRepo := mocks.NewMockContactRepository(ctrl)
	mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

	mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()

	mockContactRepo.EXPECT().
		GetByKey(gomock.Any(), "7025550123").
		Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
	mockMessageRepo.EXPECT().
		GetBySID(gomock.Any(), "SM601").
		Return(nil, repository.ErrNotFound)
	mockMessageRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
			created := *msg
			created.ID = 81
			return &created, nil
		})

	sender := &fakeEmailSender{err: errors.New("smtp unavailable")}
	svc := newIngestService(testIngestConfig("ops@propline.example"), mockRepo, &fakeFetcher{}, sender)

	result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM601", "+17025550123", "hi"))

	require.NoError(t, err)
	assert.Equal(t, int64(81), result.MessageID)
}

func TestIngestService_ProcessEvent_Failure(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockContactRepository, *mocks.MockMessageRepository)
		expectedError string
	}{
		{
			name: "contact lookup fails",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(nil, errors.New("database error"))
			},
			expectedError: "failed to upsert contact",
		},
		{
			name: "contact create fails",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(nil, repository.ErrNotFound)
				contactRepo.EXPECT().
					Create(gomock.Any(), "7025550123", gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedError: "failed to upsert contact",
		},
		{
			name: "sid lookup fails",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
				messageRepo.EXPECT().
					GetBySID(gomock.Any(), "SM700").
					Return(nil, errors.New("database error"))
			},
			expectedError: "failed to check message sid",
		},
		{
			name: "message create fails",
			setupMocks: func(contactRepo *mocks.MockContactRepository, messageRepo *mocks.MockMessageRepository) {
				contactRepo.EXPECT().
					GetByKey(gomock.Any(), "7025550123").
					Return(&models.Contact{ID: 1, PhoneKey: "7025550123", Name: "Alice"}, nil)
				messageRepo.EXPECT().
					GetBySID(gomock.Any(), "SM700").
					Return(nil, repository.ErrNotFound)
				messageRepo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedError: "failed to create message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockContactRepo := mocks.NewMockContactRepository(ctrl)
			mockMessageRepo := mocks.NewMockMessageRepository(ctrl)

			mockRepo.EXPECT().Contact().Return(mockContactRepo).AnyTimes()
			mockRepo.EXPECT().Message().Return(mockMessageRepo).AnyTimes()
			tt.setupMocks(mockContactRepo, mockMessageRepo)

			svc := newIngestService(testIngestConfig(""), mockRepo, &fakeFetcher{}, &fakeEmailSender{})

			result, err := svc.ProcessEvent(context.Background(), incomingEvent("SM700", "+17025550123", "hi"))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
			assert.Nil(t, result)
		})
	}
}
