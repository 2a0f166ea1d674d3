package execution

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExecutionApi struct {
	controller *ExecutionController
	config     *config.Config
}

func NewExecutionApi(controller *ExecutionController, config *config.Config) api.Route {
	return &ExecutionApi{
		controller: controller,
		config:     config,
	}
}

func (h *ExecutionApi) Setup(app *fiber.App) {
	group := app.Group("/api/executions", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/rule/:rule_id", h.controller.ListByRule)
	group.Get("/rule/:rule_id/stats", h.controller.StatsByRule)
}
