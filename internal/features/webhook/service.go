package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"whatsflow/internal/features/engine"

	"go.uber.org/zap"
)

type WebhookService interface {
	// VerifySignature checks the hex HMAC-SHA256 of the raw body. An empty
	// configured secret disables verification (dev mode).
	VerifySignature(body []byte, signature string) bool

	// Ingest normalizes the payload and hands it to the engine.
	Ingest(ctx context.Context, payload *NotificationPayload) error
}

type WebhookServiceImpl struct {
	Engine engine.EngineService
	Logger *zap.Logger
	secret []byte
}

func NewWebhookService(eng engine.EngineService, logger *zap.Logger, secret string) WebhookService {
	return &WebhookServiceImpl{
		Engine: eng,
		Logger: logger,
		secret: []byte(secret),
	}
}

func (s *WebhookServiceImpl) VerifySignature(body []byte, signature string) bool {
	if len(s.secret) == 0 {
		return true
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *WebhookServiceImpl) Ingest(ctx context.Context, payload *NotificationPayload) error {
	event, err := Normalize(payload)
	if err != nil {
		return err
	}
	return s.Engine.HandleEvent(ctx, event)
}

// Normalize turns a gateway payload into a TriggerEvent, rejecting payloads
// the engine cannot act on.
func Normalize(p *NotificationPayload) (*engine.TriggerEvent, error) {
	var eventType engine.EventType
	switch p.Event {
	case "message":
		eventType = engine.EventMessage
	case "reaction":
		eventType = engine.EventReaction
	default:
		return nil, fmt.Errorf("unknown event type %q", p.Event)
	}
	if p.InstanceID == "" || p.MessageID == "" {
		return nil, fmt.Errorf("instance_id and message_id are required")
	}
	if eventType == engine.EventReaction && p.Emoji == "" {
		return nil, fmt.Errorf("reaction event requires an emoji")
	}

	ts := time.Unix(p.Timestamp, 0).UTC()
	if p.Timestamp == 0 {
		ts = time.Now().UTC()
	}

	return &engine.TriggerEvent{
		Type:       eventType,
		InstanceID: p.InstanceID,
		ChatID:     p.ChatID,
		MessageID:  p.MessageID,
		SenderJID:  p.SenderJID,
		ReactorJID: p.ReactorJID,
		Emoji:      p.Emoji,
		Content:    p.Content,
		Timestamp:  ts,
	}, nil
}
