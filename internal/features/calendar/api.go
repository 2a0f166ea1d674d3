package calendar

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CalendarApi struct {
	controller *CalendarController
	config     *config.Config
}

func NewCalendarApi(controller *CalendarController, config *config.Config) api.Route {
	return &CalendarApi{
		controller: controller,
		config:     config,
	}
}

func (h *CalendarApi) Setup(app *fiber.App) {
	group := app.Group("/api/events", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Delete("/:id", h.controller.Delete)
}
