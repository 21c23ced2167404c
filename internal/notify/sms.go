package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SMSSender defines the interface for the SMS provider API.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (providerID string, err error)
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type smsResponse struct {
	MessageID string `json:"messageId"`
}

// HTTPSMSSender posts messages to a bearer-token SMS provider API.
type HTTPSMSSender struct {
	url        string
	authToken  string
	fromNumber string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPSMSSender(url, authToken, fromNumber string, timeout time.Duration, logger *zap.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		url:        url,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Send delivers one SMS and returns the provider-assigned message id.
func (s *HTTPSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	reqBody := smsRequest{
		From: s.fromNumber,
		To:   to,
		Body: body,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var smsResp smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&smsResp); err != nil {
		// Some providers return an empty 2xx body; synthesize an id so
		// the dispatch record still correlates.
		smsResp.MessageID = fmt.Sprintf("local-%d", time.Now().UnixNano())
	}

	s.logger.Info("SMS sent",
		zap.String("to", to),
		zap.String("providerID", smsResp.MessageID))

	return smsResp.MessageID, nil
}
