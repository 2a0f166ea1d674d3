package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/bill"
	"whatsflow/internal/features/calendar"
	"whatsflow/internal/features/execution"
	"whatsflow/internal/features/link"
	"whatsflow/internal/features/rule"
	"whatsflow/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeDirectory struct {
	owners map[string]string
	err    error
}

func (f *fakeDirectory) GetOwnerJID(_ context.Context, instanceID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.owners[instanceID], nil
}

// fakeLedger is an in-memory execution.LedgerRepository with the same
// uniqueness behavior as the mongo one: at most one binding row per
// (rule, message).
type fakeLedger struct {
	mu       sync.Mutex
	records  []execution.ExecutionRecord
	countErr error
}

func (f *fakeLedger) Reserve(_ context.Context, ruleID primitive.ObjectID, messageID, actorJID string) (*execution.ExecutionRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		r := &f.records[i]
		if r.Binding && r.RuleID == ruleID && r.MessageID == messageID {
			cp := *r
			return &cp, true, nil
		}
	}
	rec := execution.ExecutionRecord{
		ID:        primitive.NewObjectID(),
		RuleID:    ruleID,
		MessageID: messageID,
		ActorJID:  actorJID,
		Status:    execution.StatusPending,
		Binding:   true,
		CreatedAt: time.Now().UTC(),
	}
	f.records = append(f.records, rec)
	cp := rec
	return &cp, false, nil
}

func (f *fakeLedger) Finalize(_ context.Context, id primitive.ObjectID, status execution.Status, failureReason string, lowConfidence bool, entities []execution.EntityRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			now := time.Now().UTC()
			f.records[i].Status = status
			f.records[i].FailureReason = failureReason
			f.records[i].LowConfidence = lowConfidence
			f.records[i].Entities = entities
			f.records[i].CompletedAt = &now
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeLedger) RecordSkipped(_ context.Context, ruleID primitive.ObjectID, messageID, actorJID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, execution.ExecutionRecord{
		ID:         primitive.NewObjectID(),
		RuleID:     ruleID,
		MessageID:  messageID,
		ActorJID:   actorJID,
		Status:     execution.StatusSkipped,
		SkipReason: reason,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (f *fakeLedger) CountBindingSince(_ context.Context, ruleID primitive.ObjectID, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, r := range f.records {
		if r.Binding && r.RuleID == ruleID && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLedger) ListByRule(_ context.Context, ruleID primitive.ObjectID, _ int64) ([]execution.ExecutionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []execution.ExecutionRecord
	for _, r := range f.records {
		if r.RuleID == ruleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) StatsByRule(_ context.Context, ruleID primitive.ObjectID) (*execution.RuleStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &execution.RuleStats{RuleID: ruleID}
	for _, r := range f.records {
		if r.RuleID != ruleID {
			continue
		}
		switch r.Status {
		case execution.StatusSuccess:
			stats.Successes++
		case execution.StatusFailure:
			stats.Failures++
		case execution.StatusSkipped:
			stats.Skipped++
		}
	}
	return stats, nil
}

func (f *fakeLedger) FailStalePending(_ context.Context, olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.records {
		if f.records[i].Status == execution.StatusPending && f.records[i].CreatedAt.Before(olderThan) {
			f.records[i].Status = execution.StatusFailure
			f.records[i].FailureReason = execution.ReasonStalled
			n++
		}
	}
	return n, nil
}

func (f *fakeLedger) PruneSkipped(_ context.Context, olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	var n int64
	for _, r := range f.records {
		if r.Status == execution.StatusSkipped && r.CreatedAt.Before(olderThan) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return n, nil
}

func (f *fakeLedger) EnsureIndexes(_ context.Context) error { return nil }

func (f *fakeLedger) bindingByRuleMessage(ruleID primitive.ObjectID, messageID string) []execution.ExecutionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []execution.ExecutionRecord
	for _, r := range f.records {
		if r.Binding && r.RuleID == ruleID && r.MessageID == messageID {
			out = append(out, r)
		}
	}
	return out
}

type recordedOutcome struct {
	RuleID  primitive.ObjectID
	Outcome rule.Outcome
}

type fakeRuleService struct {
	mu       sync.Mutex
	rules    []rule.AutomationRule
	outcomes []recordedOutcome
}

func (f *fakeRuleService) CreateRule(_ context.Context, r *rule.AutomationRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, *r)
	return nil
}

func (f *fakeRuleService) GetRule(_ context.Context, id string) (*rule.AutomationRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID.Hex() == id {
			return &f.rules[i], nil
		}
	}
	return nil, errors.New("rule not found")
}

func (f *fakeRuleService) ListRules(_ context.Context) ([]rule.AutomationRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules, nil
}

func (f *fakeRuleService) UpdateRule(_ context.Context, _ *rule.AutomationRule) error { return nil }
func (f *fakeRuleService) DeleteRule(_ context.Context, _ string) error               { return nil }
func (f *fakeRuleService) EnableRule(_ context.Context, _ string, _ bool) error       { return nil }

func (f *fakeRuleService) GetActiveRulesByTriggerType(_ context.Context, triggerType rule.TriggerType, instanceID string) ([]rule.AutomationRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []rule.AutomationRule
	for _, r := range f.rules {
		if !r.Active || r.TriggerType != triggerType {
			continue
		}
		if !r.AppliesToInstance(instanceID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRuleService) RecordOutcome(_ context.Context, id primitive.ObjectID, outcome rule.Outcome, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, recordedOutcome{RuleID: id, Outcome: outcome})
	return nil
}

type createdTask struct {
	ID       primitive.ObjectID
	Draft    extraction.TaskDraft
	ParentID *primitive.ObjectID
}

type fakeTasks struct {
	mu        sync.Mutex
	created   []createdTask
	failTimes int // fail this many calls before succeeding
}

func (f *fakeTasks) CreateTask(_ context.Context, _ string, draft *extraction.TaskDraft, parentID *primitive.ObjectID) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTimes > 0 {
		f.failTimes--
		return primitive.NilObjectID, errors.New("task store unavailable")
	}
	id := primitive.NewObjectID()
	f.created = append(f.created, createdTask{ID: id, Draft: *draft, ParentID: parentID})
	return id, nil
}

func (f *fakeTasks) GetTask(_ context.Context, _ string) (*task.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTasks) ListTasks(_ context.Context, _ string) ([]task.Task, error) {
	return nil, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

type fakeBills struct {
	mu        sync.Mutex
	created   []extraction.BillDraft
	failTimes int
}

func (f *fakeBills) CreateBillPayable(_ context.Context, _ string, draft *extraction.BillDraft) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTimes > 0 {
		f.failTimes--
		return primitive.NilObjectID, errors.New("bill store unavailable")
	}
	f.created = append(f.created, *draft)
	return primitive.NewObjectID(), nil
}

func (f *fakeBills) GetBill(_ context.Context, _ string) (*bill.BillPayable, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBills) ListBills(_ context.Context, _ string) ([]bill.BillPayable, error) {
	return nil, nil
}

func (f *fakeBills) DeleteBill(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

type fakeCalendar struct {
	mu        sync.Mutex
	created   []extraction.EventDraft
	failTimes int
}

func (f *fakeCalendar) CreateCalendarEvent(_ context.Context, _ string, draft *extraction.EventDraft) (primitive.ObjectID, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTimes > 0 {
		f.failTimes--
		return primitive.NilObjectID, "", errors.New("calendar store unavailable")
	}
	f.created = append(f.created, *draft)
	return primitive.NewObjectID(), "https://meet.jit.si/test", nil
}

func (f *fakeCalendar) GetEvent(_ context.Context, _ string) (*calendar.CalendarEvent, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCalendar) ListEvents(_ context.Context, _ string) ([]calendar.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

type fakeLinks struct {
	mu      sync.Mutex
	created []link.MessageEntityLink
}

func (f *fakeLinks) Create(_ context.Context, l *link.MessageEntityLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *l)
	return nil
}

func (f *fakeLinks) ListByMessage(_ context.Context, messageID, instanceID string) ([]link.MessageEntityLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []link.MessageEntityLink
	for _, l := range f.created {
		if l.MessageID == messageID && l.InstanceID == instanceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinks) ListByEntity(_ context.Context, entityType link.EntityType, entityID primitive.ObjectID) ([]link.MessageEntityLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []link.MessageEntityLink
	for _, l := range f.created {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinks) DeleteByEntity(_ context.Context, entityType link.EntityType, entityID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.created[:0]
	for _, l := range f.created {
		if l.EntityType == entityType && l.EntityID == entityID {
			continue
		}
		kept = append(kept, l)
	}
	f.created = kept
	return nil
}

func (f *fakeLinks) EnsureIndexes(_ context.Context) error { return nil }
