package webhook

import (
	"whatsflow/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type WebhookApi struct {
	controller *WebhookController
}

// NewWebhookApi registers the ingest endpoint. It is signature-protected,
// not JWT-protected: the gateway is a machine caller.
func NewWebhookApi(controller *WebhookController) api.Route {
	return &WebhookApi{controller: controller}
}

func (h *WebhookApi) Setup(app *fiber.App) {
	group := app.Group("/api/webhook")

	group.Post("/events", h.controller.ReceiveEvent)
}
