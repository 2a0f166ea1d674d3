package task

import (
	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	Service TaskService
}

func NewTaskController(service TaskService) *TaskController {
	return &TaskController{Service: service}
}

// List godoc
// @Summary List tasks of an instance
// @Tags tasks
// @Produce json
// @Param instance_id query string true "Instance ID"
// @Success 200 {array} Task
// @Router /api/tasks [get]
func (ctrl *TaskController) List(c *fiber.Ctx) error {
	instanceID := c.Query("instance_id")
	if instanceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instance_id is required"})
	}
	tasks, err := ctrl.Service.ListTasks(c.UserContext(), instanceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

// Get godoc
// @Summary Get one task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} Task
// @Router /api/tasks/{id} [get]
func (ctrl *TaskController) Get(c *fiber.Ctx) error {
	t, err := ctrl.Service.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.JSON(t)
}

// Delete godoc
// @Summary Delete a task and its message links
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Router /api/tasks/{id} [delete]
func (ctrl *TaskController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}
