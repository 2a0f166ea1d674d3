package task

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	controller *TaskController
	config     *config.Config
}

func NewTaskApi(controller *TaskController, config *config.Config) api.Route {
	return &TaskApi{
		controller: controller,
		config:     config,
	}
}

func (h *TaskApi) Setup(app *fiber.App) {
	group := app.Group("/api/tasks", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Delete("/:id", h.controller.Delete)
}
