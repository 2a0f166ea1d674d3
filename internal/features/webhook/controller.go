package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WebhookController struct {
	Service WebhookService
	Logger  *zap.Logger
}

func NewWebhookController(service WebhookService, logger *zap.Logger) *WebhookController {
	return &WebhookController{Service: service, Logger: logger}
}

// ReceiveEvent godoc
// @Summary Receive a normalized WhatsApp event
// @Description Verifies the HMAC signature, then processes the event asynchronously
// @Tags webhook
// @Accept json
// @Param X-Webhook-Signature header string false "Hex HMAC-SHA256 of the body"
// @Param payload body NotificationPayload true "Event payload"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/webhook/events [post]
func (ctrl *WebhookController) ReceiveEvent(c *fiber.Ctx) error {
	body := c.Body()
	if !ctrl.Service.VerifySignature(body, c.Get("X-Webhook-Signature")) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var payload NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	// The gateway only needs delivery acknowledged; processing happens off
	// the request path.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := ctrl.Service.Ingest(ctx, &payload); err != nil {
			ctrl.Logger.Warn("Event ingest failed",
				zap.String("instance_id", payload.InstanceID),
				zap.String("message_id", payload.MessageID),
				zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}
