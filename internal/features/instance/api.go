package instance

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type InstanceApi struct {
	controller *InstanceController
	config     *config.Config
}

func NewInstanceApi(controller *InstanceController, config *config.Config) api.Route {
	return &InstanceApi{
		controller: controller,
		config:     config,
	}
}

func (h *InstanceApi) Setup(app *fiber.App) {
	group := app.Group("/api/instances", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListInstances)
	group.Get("/:id", h.controller.GetInstance)
	group.Post("/", h.controller.CreateInstance)
	group.Put("/:id", h.controller.UpdateInstance)
	group.Delete("/:id", h.controller.DeleteInstance)
}
