package engine

import (
	"context"
	"strings"

	"whatsflow/internal/features/rule"
)

// TriggerMatcher returns the rules whose trigger type and condition match an
// event. Pure apart from the rule-store read; results keep the store's
// creation order so multi-rule execution is deterministic.
type TriggerMatcher struct {
	Rules rule.RuleService
}

func NewTriggerMatcher(rules rule.RuleService) *TriggerMatcher {
	return &TriggerMatcher{Rules: rules}
}

func (m *TriggerMatcher) Match(ctx context.Context, event *TriggerEvent) ([]rule.AutomationRule, error) {
	var out []rule.AutomationRule
	for _, triggerType := range candidateTriggerTypes(event.Type) {
		rules, err := m.Rules.GetActiveRulesByTriggerType(ctx, triggerType, event.InstanceID)
		if err != nil {
			return nil, err
		}
		for _, r := range rules {
			if MatchesTrigger(&r, event) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// candidateTriggerTypes maps an event category onto the rule trigger types
// that can fire for it. Message events feed both keyword and plain message
// rules.
func candidateTriggerTypes(t EventType) []rule.TriggerType {
	switch t {
	case EventReaction:
		return []rule.TriggerType{rule.TriggerReaction}
	case EventMessage:
		return []rule.TriggerType{rule.TriggerKeyword, rule.TriggerMessage}
	default:
		return nil
	}
}

// MatchesTrigger checks a single rule's trigger condition against an event.
func MatchesTrigger(r *rule.AutomationRule, event *TriggerEvent) bool {
	switch r.TriggerType {
	case rule.TriggerReaction:
		if event.Type != EventReaction {
			return false
		}
		for _, e := range r.Trigger.Emojis {
			if e == event.Emoji {
				return true
			}
		}
		return false
	case rule.TriggerKeyword:
		if event.Type != EventMessage {
			return false
		}
		return strings.Contains(strings.ToLower(event.Content), strings.ToLower(r.Trigger.Keyword))
	case rule.TriggerMessage:
		return event.Type == EventMessage
	default:
		return false
	}
}
