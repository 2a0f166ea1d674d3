package engine

import (
	"context"
	"time"

	"whatsflow/internal/features/execution"
	"whatsflow/internal/features/rule"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// OwnerDirectory resolves the owning account's JID for an instance.
type OwnerDirectory interface {
	GetOwnerJID(ctx context.Context, instanceID string) (string, error)
}

// FilterEvaluator applies performer, instance, cooldown, quota and the
// optional script condition, in that order, short-circuiting on the first
// failure.
type FilterEvaluator struct {
	Directory OwnerDirectory
	Ledger    execution.LedgerRepository
	Logger    *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewFilterEvaluator(directory OwnerDirectory, ledger execution.LedgerRepository, logger *zap.Logger) *FilterEvaluator {
	return &FilterEvaluator{
		Directory: directory,
		Ledger:    ledger,
		Logger:    logger,
		now:       time.Now,
	}
}

func (f *FilterEvaluator) Evaluate(ctx context.Context, event *TriggerEvent, r *rule.AutomationRule) FilterDecision {
	actor := event.ActorJID()

	// Performer filter first: on a shared number a rule must never fire on
	// behalf of someone the filter excludes, whatever else matches.
	switch r.Performer.Mode {
	case rule.PerformerOwnerOnly:
		owner, err := f.Directory.GetOwnerJID(ctx, event.InstanceID)
		if err != nil || owner == "" || owner != actor {
			return rejected(r.ID, ReasonPerformerMismatch)
		}
	case rule.PerformerExplicitList:
		allowed := false
		for _, jid := range r.Performer.AllowedJIDs {
			if jid == actor {
				allowed = true
				break
			}
		}
		if !allowed {
			return rejected(r.ID, ReasonPerformerMismatch)
		}
	}

	if !r.AppliesToInstance(event.InstanceID) {
		return rejected(r.ID, ReasonInstanceExcluded)
	}

	now := f.now().UTC()

	// Cooldown measures from the last successful execution; failed runs
	// must not wedge the rule shut.
	if r.CooldownMinutes > 0 && r.LastExecutedAt != nil {
		window := time.Duration(r.CooldownMinutes) * time.Minute
		if now.Sub(r.LastExecutedAt.UTC()) < window {
			return rejected(r.ID, ReasonCooldownActive)
		}
	}

	if r.MaxPerDay > 0 {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		count, err := f.Ledger.CountBindingSince(ctx, r.ID, dayStart)
		if err != nil {
			f.Logger.Error("Quota count failed, rejecting conservatively",
				zap.String("rule_id", r.ID.Hex()), zap.Error(err))
			return rejected(r.ID, ReasonQuotaExceeded)
		}
		if count >= int64(r.MaxPerDay) {
			return rejected(r.ID, ReasonQuotaExceeded)
		}
	}

	if r.ScriptCondition != "" && !f.scriptAllows(r, event) {
		return rejected(r.ID, ReasonConditionFailed)
	}

	return accepted(r.ID)
}

// scriptAllows runs the rule's tengo condition. The script sees an `event`
// map and must assign `allow`. Script errors reject the rule rather than
// letting a broken script fire actions.
func (f *FilterEvaluator) scriptAllows(r *rule.AutomationRule, event *TriggerEvent) bool {
	script := tengo.NewScript([]byte(r.ScriptCondition))
	script.Add("event", map[string]interface{}{
		"type":        string(event.Type),
		"instance_id": event.InstanceID,
		"chat_id":     event.ChatID,
		"sender_jid":  event.SenderJID,
		"reactor_jid": event.ReactorJID,
		"emoji":       event.Emoji,
		"content":     event.Content,
	})
	script.Add("allow", false)

	compiled, err := script.Run()
	if err != nil {
		f.Logger.Warn("Script condition failed to run",
			zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		return false
	}
	return compiled.Get("allow").Bool()
}
