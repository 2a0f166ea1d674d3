package link

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LinkController struct {
	Repo LinkRepository
}

func NewLinkController(repo LinkRepository) *LinkController {
	return &LinkController{Repo: repo}
}

// ListByMessage godoc
// @Summary List entities created from a message
// @Tags links
// @Produce json
// @Param message_id path string true "Message ID"
// @Param instance_id query string true "Instance ID"
// @Success 200 {array} MessageEntityLink
// @Router /api/links/message/{message_id} [get]
func (ctrl *LinkController) ListByMessage(c *fiber.Ctx) error {
	instanceID := c.Query("instance_id")
	if instanceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instance_id is required"})
	}
	links, err := ctrl.Repo.ListByMessage(c.UserContext(), c.Params("message_id"), instanceID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(links)
}

// ListByEntity godoc
// @Summary List source messages of an entity
// @Tags links
// @Produce json
// @Param entity_type path string true "Entity type" Enums(task, bill, event)
// @Param entity_id path string true "Entity ID"
// @Success 200 {array} MessageEntityLink
// @Router /api/links/entity/{entity_type}/{entity_id} [get]
func (ctrl *LinkController) ListByEntity(c *fiber.Ctx) error {
	entityType := EntityType(c.Params("entity_type"))
	switch entityType {
	case EntityTask, EntityBill, EntityEvent:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entity type"})
	}
	entityID, err := primitive.ObjectIDFromHex(c.Params("entity_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entity id"})
	}
	links, err := ctrl.Repo.ListByEntity(c.UserContext(), entityType, entityID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(links)
}
