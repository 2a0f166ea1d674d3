package calendar

import (
	"github.com/gofiber/fiber/v2"
)

type CalendarController struct {
	Service CalendarService
}

func NewCalendarController(service CalendarService) *CalendarController {
	return &CalendarController{Service: service}
}

// List godoc
// @Summary List calendar events of an instance
// @Tags calendar
// @Produce json
// @Param instance_id query string true "Instance ID"
// @Success 200 {array} CalendarEvent
// @Router /api/events [get]
func (ctrl *CalendarController) List(c *fiber.Ctx) error {
	instanceID := c.Query("instance_id")
	if instanceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instance_id is required"})
	}
	events, err := ctrl.Service.ListEvents(c.UserContext(), instanceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

// Get godoc
// @Summary Get one calendar event
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} CalendarEvent
// @Router /api/events/{id} [get]
func (ctrl *CalendarController) Get(c *fiber.Ctx) error {
	ev, err := ctrl.Service.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}
	return c.JSON(ev)
}

// Delete godoc
// @Summary Delete a calendar event and its message links
// @Tags calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Router /api/events/{id} [delete]
func (ctrl *CalendarController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}
