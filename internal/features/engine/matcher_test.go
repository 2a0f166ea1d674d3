package engine

import (
	"context"
	"testing"
	"time"

	"whatsflow/internal/features/rule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeRule(name string, triggerType rule.TriggerType, cond rule.TriggerCondition) rule.AutomationRule {
	return rule.AutomationRule{
		ID:          primitive.NewObjectID(),
		Name:        name,
		TriggerType: triggerType,
		Trigger:     cond,
		ActionKind:  rule.ActionCreateTask,
		Performer:   rule.PerformerFilter{Mode: rule.PerformerAny},
		Instances:   rule.InstanceFilter{Mode: rule.InstancesAll},
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMatchesTrigger(t *testing.T) {
	reaction := activeRule("bookmark", rule.TriggerReaction, rule.TriggerCondition{Emojis: []string{"📌", "⭐"}})
	keyword := activeRule("followup", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pendiente"})
	message := activeRule("catchall", rule.TriggerMessage, rule.TriggerCondition{})

	tests := []struct {
		name  string
		rule  rule.AutomationRule
		event TriggerEvent
		want  bool
	}{
		{
			name:  "Reaction emoji in set",
			rule:  reaction,
			event: TriggerEvent{Type: EventReaction, Emoji: "⭐"},
			want:  true,
		},
		{
			name:  "Reaction emoji not in set",
			rule:  reaction,
			event: TriggerEvent{Type: EventReaction, Emoji: "👍"},
			want:  false,
		},
		{
			name:  "Reaction rule never fires on messages",
			rule:  reaction,
			event: TriggerEvent{Type: EventMessage, Content: "📌 nota"},
			want:  false,
		},
		{
			name:  "Keyword case-insensitive substring",
			rule:  keyword,
			event: TriggerEvent{Type: EventMessage, Content: "Queda PENDIENTE el pago"},
			want:  true,
		},
		{
			name:  "Keyword absent",
			rule:  keyword,
			event: TriggerEvent{Type: EventMessage, Content: "todo listo"},
			want:  false,
		},
		{
			name:  "Message rule fires on any message",
			rule:  message,
			event: TriggerEvent{Type: EventMessage, Content: "hola"},
			want:  true,
		},
		{
			name:  "Message rule ignores reactions",
			rule:  message,
			event: TriggerEvent{Type: EventReaction, Emoji: "👍"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesTrigger(&tt.rule, &tt.event); got != tt.want {
				t.Errorf("MatchesTrigger() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchCollectsKeywordAndMessageRules(t *testing.T) {
	keyword := activeRule("followup", rule.TriggerKeyword, rule.TriggerCondition{Keyword: "pendiente"})
	message := activeRule("catchall", rule.TriggerMessage, rule.TriggerCondition{})
	reaction := activeRule("bookmark", rule.TriggerReaction, rule.TriggerCondition{Emojis: []string{"📌"}})

	svc := &fakeRuleService{rules: []rule.AutomationRule{keyword, message, reaction}}
	matcher := NewTriggerMatcher(svc)

	event := &TriggerEvent{
		Type:       EventMessage,
		InstanceID: "inst-1",
		MessageID:  "msg-1",
		Content:    "queda pendiente la factura",
	}
	matched, err := matcher.Match(context.Background(), event)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("matched %d rules, want 2", len(matched))
	}
	if matched[0].ID != keyword.ID || matched[1].ID != message.ID {
		t.Errorf("matched rules out of order: %s, %s", matched[0].Name, matched[1].Name)
	}
}

func TestMatchSkipsInactiveAndForeignInstanceRules(t *testing.T) {
	inactive := activeRule("off", rule.TriggerMessage, rule.TriggerCondition{})
	inactive.Active = false

	scoped := activeRule("scoped", rule.TriggerMessage, rule.TriggerCondition{})
	scoped.Instances = rule.InstanceFilter{Mode: rule.InstancesSubset, InstanceIDs: []string{"inst-other"}}

	svc := &fakeRuleService{rules: []rule.AutomationRule{inactive, scoped}}
	matcher := NewTriggerMatcher(svc)

	event := &TriggerEvent{Type: EventMessage, InstanceID: "inst-1", Content: "hola"}
	matched, err := matcher.Match(context.Background(), event)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 0 {
		t.Errorf("matched %d rules, want 0", len(matched))
	}
}
