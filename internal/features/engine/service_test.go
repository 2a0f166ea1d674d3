package engine

import (
	"context"
	"testing"
	"time"

	"whatsflow/internal/config"
	"whatsflow/internal/extraction"
	"whatsflow/internal/features/execution"
	"whatsflow/internal/features/rule"

	"go.uber.org/zap"
)

func newEngine(env *executorEnv, rules []rule.AutomationRule, recordSkipped bool) EngineService {
	env.rules.rules = rules
	cfg := &config.Config{
		DecimalStyle:        config.DecimalStylePeriod,
		DefaultCurrency:     "MXN",
		Timezone:            "UTC",
		DefaultEventHour:    9,
		ConfidenceThreshold: 0.5,
		RecordSkipped:       recordSkipped,
		UnitTimeoutSeconds:  5,
	}
	evaluator := NewFilterEvaluator(&fakeDirectory{}, env.ledger, zap.NewNop())
	return NewEngineService(
		NewTriggerMatcher(env.rules),
		evaluator,
		env.exec,
		extraction.NewPipeline(cfg),
		zap.NewNop(),
		cfg,
	)
}

func TestHandleEventEndToEnd(t *testing.T) {
	env := newExecutorEnv()
	r := activeRule("pagos", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pago"})
	r.ActionKind = rule.ActionCreateBillPayable
	svc := newEngine(env, []rule.AutomationRule{r}, false)

	event := &TriggerEvent{
		Type:       EventMessage,
		InstanceID: "inst-1",
		ChatID:     "chat-1",
		MessageID:  "msg-1",
		SenderJID:  "alice@s.whatsapp.net",
		Content:    "Pago 5,000 a Carlos",
		Timestamp:  time.Now().UTC(),
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(env.bills.created) != 1 {
		t.Fatalf("bills created = %d, want 1", len(env.bills.created))
	}
	created := env.bills.created[0]
	if created.Vendor != "Carlos" || created.AmountCents != 500000 {
		t.Errorf("created bill = %+v, want Carlos / 500000 cents", created)
	}
	rows := env.ledger.bindingByRuleMessage(r.ID, "msg-1")
	if len(rows) != 1 || rows[0].Status != execution.StatusSuccess {
		t.Errorf("ledger rows = %+v, want one success row", rows)
	}
	if len(env.links.created) != 1 {
		t.Errorf("links created = %d, want 1", len(env.links.created))
	}
}

func TestHandleEventNoMatchingRuleIsNoop(t *testing.T) {
	env := newExecutorEnv()
	r := activeRule("pagos", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pago"})
	svc := newEngine(env, []rule.AutomationRule{r}, false)

	event := &TriggerEvent{
		Type:       EventMessage,
		InstanceID: "inst-1",
		MessageID:  "msg-1",
		Content:    "nos vemos al rato",
		Timestamp:  time.Now().UTC(),
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(env.ledger.records) != 0 {
		t.Errorf("ledger rows = %d, want 0", len(env.ledger.records))
	}
}

func TestHandleEventRecordsSkippedWhenEnabled(t *testing.T) {
	env := newExecutorEnv()
	r := activeRule("pagos", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pago"})
	r.ScriptCondition = `allow = false`
	svc := newEngine(env, []rule.AutomationRule{r}, true)

	event := &TriggerEvent{
		Type:       EventMessage,
		InstanceID: "inst-1",
		MessageID:  "msg-1",
		SenderJID:  "alice@s.whatsapp.net",
		Content:    "Pago 5,000 a Carlos",
		Timestamp:  time.Now().UTC(),
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(env.bills.created) != 0 {
		t.Errorf("bills created = %d, want 0 for a rejected rule", len(env.bills.created))
	}
	if len(env.ledger.records) != 1 {
		t.Fatalf("ledger rows = %d, want 1 skipped row", len(env.ledger.records))
	}
	row := env.ledger.records[0]
	if row.Status != execution.StatusSkipped || row.SkipReason != string(ReasonConditionFailed) {
		t.Errorf("row = %v/%q, want skipped/condition_failed", row.Status, row.SkipReason)
	}
	if row.Binding {
		t.Error("skipped rows must not bind the (rule, message) slot")
	}
}

func TestHandleEventMultipleRulesOneEvent(t *testing.T) {
	env := newExecutorEnv()
	billRule := activeRule("pagos", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pago"})
	billRule.ActionKind = rule.ActionCreateBillPayable
	taskRule := activeRule("catchall", rule.TriggerMessage, rule.TriggerCondition{})
	taskRule.ActionKind = rule.ActionCreateTask
	svc := newEngine(env, []rule.AutomationRule{billRule, taskRule}, false)

	event := &TriggerEvent{
		Type:       EventMessage,
		InstanceID: "inst-1",
		MessageID:  "msg-1",
		SenderJID:  "alice@s.whatsapp.net",
		Content:    "Pago 5,000 a Carlos",
		Timestamp:  time.Now().UTC(),
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(env.bills.created) != 1 {
		t.Errorf("bills created = %d, want 1", len(env.bills.created))
	}
	if len(env.tasks.created) != 1 {
		t.Errorf("tasks created = %d, want 1", len(env.tasks.created))
	}
	if got := len(env.ledger.bindingByRuleMessage(billRule.ID, "msg-1")) + len(env.ledger.bindingByRuleMessage(taskRule.ID, "msg-1")); got != 2 {
		t.Errorf("binding rows = %d, want one per rule", got)
	}
}
