package execution

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExecutionController struct {
	Repo LedgerRepository
}

func NewExecutionController(repo LedgerRepository) *ExecutionController {
	return &ExecutionController{Repo: repo}
}

// ListByRule godoc
// @Summary List executions of a rule
// @Tags executions
// @Produce json
// @Param rule_id path string true "Rule ID"
// @Param limit query int false "Max rows" default(50)
// @Success 200 {array} ExecutionRecord
// @Router /api/executions/rule/{rule_id} [get]
func (ctrl *ExecutionController) ListByRule(c *fiber.Ctx) error {
	ruleID, err := primitive.ObjectIDFromHex(c.Params("rule_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}
	limit := int64(c.QueryInt("limit", 50))
	recs, err := ctrl.Repo.ListByRule(c.UserContext(), ruleID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(recs)
}

// StatsByRule godoc
// @Summary Execution statistics for a rule
// @Tags executions
// @Produce json
// @Param rule_id path string true "Rule ID"
// @Success 200 {object} RuleStats
// @Router /api/executions/rule/{rule_id}/stats [get]
func (ctrl *ExecutionController) StatsByRule(c *fiber.Ctx) error {
	ruleID, err := primitive.ObjectIDFromHex(c.Params("rule_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}
	stats, err := ctrl.Repo.StatsByRule(c.UserContext(), ruleID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
