package bill

import (
	"github.com/gofiber/fiber/v2"
)

type BillController struct {
	Service BillService
}

func NewBillController(service BillService) *BillController {
	return &BillController{Service: service}
}

// List godoc
// @Summary List bills payable of an instance
// @Tags bills
// @Produce json
// @Param instance_id query string true "Instance ID"
// @Success 200 {array} BillPayable
// @Router /api/bills [get]
func (ctrl *BillController) List(c *fiber.Ctx) error {
	instanceID := c.Query("instance_id")
	if instanceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instance_id is required"})
	}
	bills, err := ctrl.Service.ListBills(c.UserContext(), instanceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(bills)
}

// Get godoc
// @Summary Get one bill payable
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} BillPayable
// @Router /api/bills/{id} [get]
func (ctrl *BillController) Get(c *fiber.Ctx) error {
	b, err := ctrl.Service.GetBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bill not found"})
	}
	return c.JSON(b)
}

// Delete godoc
// @Summary Delete a bill payable and its message links
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} map[string]string
// @Router /api/bills/{id} [delete]
func (ctrl *BillController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteBill(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Bill deleted"})
}
