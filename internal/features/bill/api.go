package bill

import (
	"whatsflow/internal/common/api"
	"whatsflow/internal/config"
	"whatsflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BillApi struct {
	controller *BillController
	config     *config.Config
}

func NewBillApi(controller *BillController, config *config.Config) api.Route {
	return &BillApi{
		controller: controller,
		config:     config,
	}
}

func (h *BillApi) Setup(app *fiber.App) {
	group := app.Group("/api/bills", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Delete("/:id", h.controller.Delete)
}
