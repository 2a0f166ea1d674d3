package link

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LinkApi struct {
	controller *LinkController
	config     *config.Config
}

func NewLinkApi(controller *LinkController, config *config.Config) api.Route {
	return &LinkApi{
		controller: controller,
		config:     config,
	}
}

func (h *LinkApi) Setup(app *fiber.App) {
	group := app.Group("/api/links", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/message/:message_id", h.controller.ListByMessage)
	group.Get("/entity/:entity_type/:entity_id", h.controller.ListByEntity)
}
