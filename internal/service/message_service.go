package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/models"
	"github.com/propline/sms-dashboard/internal/repository"
)

type messageService struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewMessageService(repo repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{
		repo:   repo,
		logger: logger,
	}
}

// GetConversation returns the most recent messages for one phone key,
// newest first, with the contact when one exists.
func (s *messageService) GetConversation(ctx context.Context, phoneKey string, limit int) (*models.ConversationResponse, error) {
	messages, err := s.repo.Message().ListByPhoneKey(ctx, phoneKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	resp := &models.ConversationResponse{
		PhoneKey: phoneKey,
		Messages: make([]models.Message, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, *msg)
	}

	contact, err := s.repo.Contact().GetByKey(ctx, phoneKey)
	if err == nil {
		resp.Contact = contact
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return resp, nil
}

// ListMessages retrieves messages with pagination.
func (s *messageService) ListMessages(ctx context.Context, page, limit int, direction models.Direction) (*models.MessageListResponse, error) {
	offset := (page - 1) * limit

	messages, err := s.repo.Message().List(ctx, offset, limit, direction)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	totalCount, err := s.repo.Message().Count(ctx, direction)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	totalPages := int(totalCount) / limit
	if int(totalCount)%limit > 0 {
		totalPages++
	}

	items := make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		items = append(items, *msg)
	}

	return &models.MessageListResponse{
		Messages: items,
		Pagination: models.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   int(totalCount),
			ItemsPerPage: limit,
		},
	}, nil
}
