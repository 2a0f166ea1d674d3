package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/bill"
	"whatsflow/internal/features/calendar"
	"whatsflow/internal/features/execution"
	"whatsflow/internal/features/link"
	"whatsflow/internal/features/rule"
	"whatsflow/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	retryAttempts = 3
	retryBaseWait = 250 * time.Millisecond
)

// ActionExecutor turns entity drafts into persisted business records, at
// most once per (rule, message).
type ActionExecutor struct {
	Ledger   execution.LedgerRepository
	Rules    rule.RuleService
	Tasks    task.TaskService
	Bills    bill.BillService
	Calendar calendar.CalendarService
	Links    link.LinkRepository
	Logger   *zap.Logger

	ConfidenceThreshold float64
}

func NewActionExecutor(
	ledger execution.LedgerRepository,
	rules rule.RuleService,
	tasks task.TaskService,
	bills bill.BillService,
	cal calendar.CalendarService,
	links link.LinkRepository,
	logger *zap.Logger,
	confidenceThreshold float64,
) *ActionExecutor {
	return &ActionExecutor{
		Ledger:              ledger,
		Rules:               rules,
		Tasks:               tasks,
		Bills:               bills,
		Calendar:            cal,
		Links:               links,
		Logger:              logger,
		ConfidenceThreshold: confidenceThreshold,
	}
}

// Execute runs one accepted (event, rule) unit. A redelivered event finds
// the existing ledger row and returns it with no new side effects.
func (e *ActionExecutor) Execute(ctx context.Context, r *rule.AutomationRule, event *TriggerEvent, drafts []extraction.Draft) (*execution.ExecutionRecord, error) {
	rec, existing, err := e.Ledger.Reserve(ctx, r.ID, event.MessageID, event.ActorJID())
	if err != nil {
		return nil, fmt.Errorf("ledger reserve: %w", err)
	}
	if existing {
		e.Logger.Info("Duplicate trigger suppressed",
			zap.String("rule_id", r.ID.Hex()),
			zap.String("message_id", event.MessageID))
		return rec, nil
	}

	now := time.Now().UTC()

	if len(drafts) == 0 {
		if err := e.Ledger.Finalize(ctx, rec.ID, execution.StatusFailure, execution.ReasonNoEntityExtracted, false, nil); err != nil {
			e.Logger.Error("Ledger finalize failed", zap.Error(err))
		}
		if err := e.Rules.RecordOutcome(ctx, r.ID, rule.OutcomeFailure, now); err != nil {
			e.Logger.Error("Counter update failed", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		}
		rec.Status = execution.StatusFailure
		rec.FailureReason = execution.ReasonNoEntityExtracted
		return rec, nil
	}

	lowConfidence := false
	for _, d := range drafts {
		if d.Confidence < e.ConfidenceThreshold {
			// Low confidence is an annotation, not a discard: an imperfect
			// record a human can fix beats a silently lost one.
			lowConfidence = true
			break
		}
	}

	var entities []execution.EntityRef
	taskIDs := make(map[int]primitive.ObjectID) // draft index -> created task id
	anyFailed := false

	for i, d := range drafts {
		ref, err := e.createEntity(ctx, r, event, d, i, taskIDs)
		if err != nil {
			// Siblings already created stay: partial multi-entity creation
			// is visible to the user on purpose.
			anyFailed = true
			e.Logger.Error("Entity creation failed",
				zap.String("rule_id", r.ID.Hex()),
				zap.String("message_id", event.MessageID),
				zap.Error(err))
			continue
		}
		entities = append(entities, ref)

		if err := e.Links.Create(ctx, &link.MessageEntityLink{
			EntityType: link.EntityType(ref.Type),
			EntityID:   ref.ID,
			MessageID:  event.MessageID,
			InstanceID: event.InstanceID,
			LinkType:   link.LinkTrigger,
		}); err != nil {
			e.Logger.Error("Message link creation failed",
				zap.String("entity_id", ref.ID.Hex()), zap.Error(err))
		}
	}

	status := execution.StatusSuccess
	failureReason := ""
	outcome := rule.OutcomeSuccess
	if anyFailed {
		status = execution.StatusFailure
		failureReason = execution.ReasonPersistenceFailed
		outcome = rule.OutcomeFailure
	}

	if err := e.Ledger.Finalize(ctx, rec.ID, status, failureReason, lowConfidence, entities); err != nil {
		e.Logger.Error("Ledger finalize failed", zap.Error(err))
	}
	if err := e.Rules.RecordOutcome(ctx, r.ID, outcome, now); err != nil {
		e.Logger.Error("Counter update failed", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
	}

	rec.Status = status
	rec.FailureReason = failureReason
	rec.LowConfidence = lowConfidence
	rec.Entities = entities
	return rec, nil
}

func (e *ActionExecutor) createEntity(ctx context.Context, r *rule.AutomationRule, event *TriggerEvent, d extraction.Draft, idx int, taskIDs map[int]primitive.ObjectID) (execution.EntityRef, error) {
	switch {
	case d.Task != nil:
		draft := *d.Task
		applyTaskTemplate(&draft, r, event)
		var parentID *primitive.ObjectID
		if draft.ParentIndex >= 0 {
			if id, ok := taskIDs[draft.ParentIndex]; ok {
				parentID = &id
			}
			// A parent that failed to persist leaves the child a root task;
			// better flat than lost.
		}
		var id primitive.ObjectID
		err := e.withRetry(ctx, func() error {
			var cerr error
			id, cerr = e.Tasks.CreateTask(ctx, event.InstanceID, &draft, parentID)
			return cerr
		})
		if err != nil {
			return execution.EntityRef{}, err
		}
		taskIDs[idx] = id
		return execution.EntityRef{Type: string(link.EntityTask), ID: id}, nil

	case d.Bill != nil:
		draft := *d.Bill
		if draft.Category == "" && r.Action.DefaultCategory != "" {
			draft.Category = r.Action.DefaultCategory
		}
		if desc := renderTemplate(r.Action.DescriptionTemplate, event); desc != "" {
			draft.Description = desc
		}
		var id primitive.ObjectID
		err := e.withRetry(ctx, func() error {
			var cerr error
			id, cerr = e.Bills.CreateBillPayable(ctx, event.InstanceID, &draft)
			return cerr
		})
		if err != nil {
			return execution.EntityRef{}, err
		}
		return execution.EntityRef{Type: string(link.EntityBill), ID: id}, nil

	case d.Event != nil:
		draft := *d.Event
		if t := renderTemplate(r.Action.TitleTemplate, event); t != "" {
			draft.Title = t
		}
		var id primitive.ObjectID
		err := e.withRetry(ctx, func() error {
			var cerr error
			id, _, cerr = e.Calendar.CreateCalendarEvent(ctx, event.InstanceID, &draft)
			return cerr
		})
		if err != nil {
			return execution.EntityRef{}, err
		}
		return execution.EntityRef{Type: string(link.EntityEvent), ID: id}, nil
	}
	return execution.EntityRef{}, fmt.Errorf("draft carries no entity")
}

func applyTaskTemplate(draft *extraction.TaskDraft, r *rule.AutomationRule, event *TriggerEvent) {
	// Sub-tasks keep the per-line title extraction produced; templating them
	// would collapse a whole list onto one rendered string.
	if draft.ParentIndex < 0 {
		if t := renderTemplate(r.Action.TitleTemplate, event); t != "" {
			draft.Title = t
		}
	}
	if d := renderTemplate(r.Action.DescriptionTemplate, event); d != "" {
		draft.Description = d
	}
	if r.Action.DefaultPriority != "" && draft.Priority == extraction.PriorityMedium {
		draft.Priority = r.Action.DefaultPriority
	}
}

// renderTemplate substitutes event placeholders into a rule template.
func renderTemplate(tmpl string, event *TriggerEvent) string {
	if tmpl == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"{{content}}", event.Content,
		"{{sender}}", event.SenderJID,
		"{{chat}}", event.ChatID,
		"{{emoji}}", event.Emoji,
	)
	return strings.TrimSpace(replacer.Replace(tmpl))
}

// withRetry runs op up to retryAttempts times with doubling backoff. The
// storage collaborator owns real retry policy; this only rides out brief
// blips without re-running extraction.
func (e *ActionExecutor) withRetry(ctx context.Context, op func() error) error {
	var err error
	wait := retryBaseWait
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}
