package rule

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RuleApi struct {
	controller *RuleController
	config     *config.Config
}

func NewRuleApi(controller *RuleController, config *config.Config) api.Route {
	return &RuleApi{
		controller: controller,
		config:     config,
	}
}

func (h *RuleApi) Setup(app *fiber.App) {
	group := app.Group("/api/rules", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListRules)
	group.Get("/:id", h.controller.GetRule)
	group.Post("/", h.controller.CreateRule)
	group.Put("/:id", h.controller.UpdateRule)
	group.Patch("/:id/enable", h.controller.EnableRule)
	group.Delete("/:id", h.controller.DeleteRule)
}
