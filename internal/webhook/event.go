// Package webhook parses inbound provider event envelopes.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propline/sms-dashboard/internal/models"
)

var (
	ErrMissingSID   = errors.New("webhook: event has no sid or id")
	ErrMissingPhone = errors.New("webhook: event has no usable phone number")
)

// Media is one provider-supplied media descriptor.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Event is a validated provider event, ready for ingestion.
type Event struct {
	Type      string
	SID       string
	Direction models.Direction
	Phone     string
	Body      string
	Media     []Media
	Timestamp time.Time
}

type envelope struct {
	Type string `json:"type"`
	Data struct {
		Object eventObject `json:"object"`
	} `json:"data"`
}

type eventObject struct {
	SID       string  `json:"sid"`
	ID        string  `json:"id"`
	Direction string  `json:"direction"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Body      string  `json:"body"`
	Media     []Media `json:"media"`
	Timestamp string  `json:"timestamp"`
}

// ParseEvent decodes and validates one provider webhook body. The SID
// falls back to the generic object id; media entries without a URL are
// dropped. Validation failures happen before any database mutation.
func ParseEvent(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("webhook: decode event: %w", err)
	}

	obj := env.Data.Object

	sid := obj.SID
	if sid == "" {
		sid = obj.ID
	}
	if sid == "" {
		return nil, ErrMissingSID
	}

	direction := inferDirection(obj.Direction, env.Type)

	phone := obj.From
	if direction == models.DirectionOutgoing {
		phone = obj.To
	}
	if phone == "" {
		// Whichever side is present still identifies the conversation.
		if obj.From != "" {
			phone = obj.From
		} else {
			phone = obj.To
		}
	}
	if phone == "" {
		return nil, ErrMissingPhone
	}

	media := make([]Media, 0, len(obj.Media))
	for _, m := range obj.Media {
		if m.URL == "" {
			continue
		}
		media = append(media, m)
	}

	evt := &Event{
		Type:      env.Type,
		SID:       sid,
		Direction: direction,
		Phone:     phone,
		Body:      obj.Body,
		Media:     media,
	}

	if obj.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, obj.Timestamp); err == nil {
			evt.Timestamp = ts
		}
	}

	return evt, nil
}

// inferDirection prefers the explicit direction field, then falls back
// to the event type. Unknown events are treated as incoming, which is
// the conservative choice for a dashboard that must not drop tenant
// messages.
func inferDirection(direction, eventType string) models.Direction {
	switch strings.ToLower(direction) {
	case "incoming", "inbound":
		return models.DirectionIncoming
	case "outgoing", "outbound":
		return models.DirectionOutgoing
	}

	lower := strings.ToLower(eventType)
	if strings.Contains(lower, "sent") || strings.Contains(lower, "outbound") || strings.Contains(lower, "outgoing") {
		return models.DirectionOutgoing
	}
	return models.DirectionIncoming
}
