package instance

import (
	"github.com/gofiber/fiber/v2"
)

type InstanceController struct {
	Service InstanceService
}

func NewInstanceController(service InstanceService) *InstanceController {
	return &InstanceController{Service: service}
}

// CreateInstance godoc
// @Summary Register WhatsApp instance
// @Tags instances
// @Accept json
// @Produce json
// @Param instance body Instance true "Instance"
// @Success 201 {object} Instance
// @Router /api/instances [post]
func (ctrl *InstanceController) CreateInstance(c *fiber.Ctx) error {
	var inst Instance
	if err := c.BodyParser(&inst); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.CreateInstance(c.UserContext(), &inst); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(inst)
}

// GetInstance godoc
// @Summary Get instance
// @Tags instances
// @Produce json
// @Param id path string true "Instance ID"
// @Success 200 {object} Instance
// @Router /api/instances/{id} [get]
func (ctrl *InstanceController) GetInstance(c *fiber.Ctx) error {
	inst, err := ctrl.Service.GetInstance(c.UserContext(), c.Params("id"))
	if err != nil || inst == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instance not found"})
	}
	return c.JSON(inst)
}

// ListInstances godoc
// @Summary List instances
// @Tags instances
// @Produce json
// @Success 200 {array} Instance
// @Router /api/instances [get]
func (ctrl *InstanceController) ListInstances(c *fiber.Ctx) error {
	instances, err := ctrl.Service.ListInstances(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(instances)
}

// UpdateInstance godoc
// @Summary Update instance
// @Tags instances
// @Accept json
// @Produce json
// @Param id path string true "Instance ID"
// @Success 200 {object} Instance
// @Router /api/instances/{id} [put]
func (ctrl *InstanceController) UpdateInstance(c *fiber.Ctx) error {
	var inst Instance
	if err := c.BodyParser(&inst); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	inst.InstanceID = c.Params("id")

	if err := ctrl.Service.UpdateInstance(c.UserContext(), &inst); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(inst)
}

// DeleteInstance godoc
// @Summary Delete instance
// @Tags instances
// @Param id path string true "Instance ID"
// @Success 204 {object} nil
// @Router /api/instances/{id} [delete]
func (ctrl *InstanceController) DeleteInstance(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteInstance(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
