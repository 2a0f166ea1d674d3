package rule

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RuleService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error
	EnableRule(ctx context.Context, id string, active bool) error

	// GetActiveRulesByTriggerType is the engine's read path: active rules of
	// the type, scoped to the instance, creation order, malformed ones
	// dropped with a warning.
	GetActiveRulesByTriggerType(ctx context.Context, triggerType TriggerType, instanceID string) ([]AutomationRule, error)

	RecordOutcome(ctx context.Context, id primitive.ObjectID, outcome Outcome, executedAt time.Time) error
}

type RuleServiceImpl struct {
	Repo   RuleRepository
	Logger *zap.Logger
}

func NewRuleService(repo RuleRepository, logger *zap.Logger) RuleService {
	return &RuleServiceImpl{Repo: repo, Logger: logger}
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	return s.Repo.Create(ctx, rule)
}

func (s *RuleServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *RuleServiceImpl) ListRules(ctx context.Context) ([]AutomationRule, error) {
	return s.Repo.List(ctx)
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	return s.Repo.Update(ctx, rule)
}

func (s *RuleServiceImpl) DeleteRule(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *RuleServiceImpl) EnableRule(ctx context.Context, id string, active bool) error {
	return s.Repo.Enable(ctx, id, active)
}

func (s *RuleServiceImpl) GetActiveRulesByTriggerType(ctx context.Context, triggerType TriggerType, instanceID string) ([]AutomationRule, error) {
	rules, err := s.Repo.ListActiveByTriggerType(ctx, triggerType)
	if err != nil {
		return nil, err
	}

	out := rules[:0]
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			// Stored rules can predate the current schema; drop them at load
			// instead of failing at match time.
			s.Logger.Warn("Dropping malformed automation rule",
				zap.String("rule_id", r.ID.Hex()),
				zap.Error(err))
			continue
		}
		if !r.AppliesToInstance(instanceID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RuleServiceImpl) RecordOutcome(ctx context.Context, id primitive.ObjectID, outcome Outcome, executedAt time.Time) error {
	return s.Repo.IncrementCounters(ctx, id, outcome, executedAt)
}
