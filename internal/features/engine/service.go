package engine

import (
	"context"
	"sync"
	"time"

	"whatsflow/internal/config"
	"whatsflow/internal/extraction"
	"whatsflow/internal/features/rule"

	"go.uber.org/zap"
)

// EngineService is the entry point for normalized events: match rules, run
// filters, extract entities, execute actions. Each accepted (event, rule)
// pair is an independent unit of work.
type EngineService interface {
	HandleEvent(ctx context.Context, event *TriggerEvent) error
}

type EngineServiceImpl struct {
	Matcher   *TriggerMatcher
	Evaluator *FilterEvaluator
	Executor  *ActionExecutor
	Pipeline  *extraction.Pipeline
	Logger    *zap.Logger

	recordSkipped bool
	unitTimeout   time.Duration
}

func NewEngineService(
	matcher *TriggerMatcher,
	evaluator *FilterEvaluator,
	executor *ActionExecutor,
	pipeline *extraction.Pipeline,
	logger *zap.Logger,
	cfg *config.Config,
) EngineService {
	return &EngineServiceImpl{
		Matcher:       matcher,
		Evaluator:     evaluator,
		Executor:      executor,
		Pipeline:      pipeline,
		Logger:        logger,
		recordSkipped: cfg.RecordSkipped,
		unitTimeout:   time.Duration(cfg.UnitTimeoutSeconds) * time.Second,
	}
}

func (s *EngineServiceImpl) HandleEvent(ctx context.Context, event *TriggerEvent) error {
	rules, err := s.Matcher.Match(ctx, event)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	// Units run in parallel; only same-rule/same-message attempts contend,
	// and the ledger and counter writes already arbitrate those.
	var wg sync.WaitGroup
	for i := range rules {
		r := rules[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runUnit(&r, event)
		}()
	}
	wg.Wait()
	return nil
}

// runUnit processes one (event, rule) pair. Nothing escapes: a panic or
// error here is captured so sibling units and other events keep going.
func (s *EngineServiceImpl) runUnit(r *rule.AutomationRule, event *TriggerEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			s.Logger.Error("Rule unit panicked",
				zap.String("rule_id", r.ID.Hex()),
				zap.String("message_id", event.MessageID),
				zap.Any("panic", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.unitTimeout)
	defer cancel()

	decision := s.Evaluator.Evaluate(ctx, event, r)
	if decision.Outcome == OutcomeRejected {
		s.Logger.Debug("Rule rejected",
			zap.String("rule_id", r.ID.Hex()),
			zap.String("instance_id", event.InstanceID),
			zap.String("reason", string(decision.Reason)))
		if s.recordSkipped {
			if err := s.Executor.Ledger.RecordSkipped(ctx, r.ID, event.MessageID, event.ActorJID(), string(decision.Reason)); err != nil {
				s.Logger.Warn("Skipped-row write failed", zap.Error(err))
			}
		}
		return
	}

	drafts := s.extract(r, event)

	rec, err := s.Executor.Execute(ctx, r, event, drafts)
	if err != nil {
		s.Logger.Error("Rule execution failed",
			zap.String("rule_id", r.ID.Hex()),
			zap.String("message_id", event.MessageID),
			zap.Error(err))
		return
	}

	s.Logger.Info("Rule executed",
		zap.String("rule_id", r.ID.Hex()),
		zap.String("instance_id", event.InstanceID),
		zap.String("message_id", event.MessageID),
		zap.String("status", string(rec.Status)),
		zap.Int("entities", len(rec.Entities)),
		zap.Bool("low_confidence", rec.LowConfidence))
}

func (s *EngineServiceImpl) extract(r *rule.AutomationRule, event *TriggerEvent) []extraction.Draft {
	var parser extraction.Parser
	switch r.ActionKind {
	case rule.ActionCreateTask:
		parser = s.Pipeline.Tasks
	case rule.ActionCreateBillPayable:
		parser = s.Pipeline.Bills
	case rule.ActionCreateCalendarEvent:
		parser = s.Pipeline.Events
	default:
		return nil
	}
	return parser.Parse(event.Content, event.Timestamp)
}
