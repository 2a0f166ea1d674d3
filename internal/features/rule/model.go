package rule

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerReaction TriggerType = "reaction"
	TriggerKeyword  TriggerType = "keyword"
	TriggerMessage  TriggerType = "message"
)

type ActionKind string

const (
	ActionCreateTask          ActionKind = "create_task"
	ActionCreateBillPayable   ActionKind = "create_bill_payable"
	ActionCreateCalendarEvent ActionKind = "create_calendar_event"
)

type PerformerMode string

const (
	PerformerAny          PerformerMode = "any"
	PerformerOwnerOnly    PerformerMode = "instance_owner_only"
	PerformerExplicitList PerformerMode = "explicit_list"
)

type InstanceMode string

const (
	InstancesAll    InstanceMode = "all"
	InstancesSubset InstanceMode = "subset"
)

// TriggerCondition is the closed variant per trigger type: reaction rules
// carry an emoji set, keyword rules a keyword, message rules nothing.
type TriggerCondition struct {
	Emojis  []string `json:"emojis,omitempty" bson:"emojis,omitempty"`
	Keyword string   `json:"keyword,omitempty" bson:"keyword,omitempty"`
}

// ActionTemplate shapes the record the executor creates. Templates may use
// {{content}}, {{sender}} and {{chat}} placeholders.
type ActionTemplate struct {
	TitleTemplate       string `json:"title_template,omitempty" bson:"title_template,omitempty"`
	DescriptionTemplate string `json:"description_template,omitempty" bson:"description_template,omitempty"`
	DefaultPriority     string `json:"default_priority,omitempty" bson:"default_priority,omitempty"`
	DefaultCategory     string `json:"default_category,omitempty" bson:"default_category,omitempty"`
}

type PerformerFilter struct {
	Mode        PerformerMode `json:"mode" bson:"mode"`
	AllowedJIDs []string      `json:"allowed_jids,omitempty" bson:"allowed_jids,omitempty"`
}

type InstanceFilter struct {
	Mode        InstanceMode `json:"mode" bson:"mode"`
	InstanceIDs []string     `json:"instance_ids,omitempty" bson:"instance_ids,omitempty"`
}

type AutomationRule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	TriggerType TriggerType        `json:"trigger_type" bson:"trigger_type"`
	Trigger     TriggerCondition   `json:"trigger" bson:"trigger"`
	ActionKind  ActionKind         `json:"action_kind" bson:"action_kind"`
	Action      ActionTemplate     `json:"action" bson:"action"`
	Performer   PerformerFilter    `json:"performer" bson:"performer"`
	Instances   InstanceFilter     `json:"instances" bson:"instances"`

	CooldownMinutes int `json:"cooldown_minutes" bson:"cooldown_minutes"`
	MaxPerDay       int `json:"max_per_day" bson:"max_per_day"`

	// Optional tengo expression evaluated after the built-in filters; the
	// script sees `event` and must assign `allow`.
	ScriptCondition string `json:"script_condition,omitempty" bson:"script_condition,omitempty"`

	ExecutionCount int64      `json:"execution_count" bson:"execution_count"`
	SuccessCount   int64      `json:"success_count" bson:"success_count"`
	FailureCount   int64      `json:"failure_count" bson:"failure_count"`
	LastExecutedAt *time.Time `json:"last_executed_at,omitempty" bson:"last_executed_at,omitempty"`

	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate rejects malformed rules up front, so the matcher never sees a
// trigger condition that does not fit its trigger type.
func (r *AutomationRule) Validate() error {
	switch r.TriggerType {
	case TriggerReaction:
		if len(r.Trigger.Emojis) == 0 {
			return fmt.Errorf("reaction rule requires at least one emoji")
		}
		if r.Trigger.Keyword != "" {
			return fmt.Errorf("reaction rule must not carry a keyword")
		}
	case TriggerKeyword:
		if r.Trigger.Keyword == "" {
			return fmt.Errorf("keyword rule requires a keyword")
		}
		if len(r.Trigger.Emojis) > 0 {
			return fmt.Errorf("keyword rule must not carry emojis")
		}
	case TriggerMessage:
		if r.Trigger.Keyword != "" || len(r.Trigger.Emojis) > 0 {
			return fmt.Errorf("message rule carries no trigger condition")
		}
	default:
		return fmt.Errorf("unknown trigger type %q", r.TriggerType)
	}

	switch r.ActionKind {
	case ActionCreateTask, ActionCreateBillPayable, ActionCreateCalendarEvent:
	default:
		return fmt.Errorf("unknown action kind %q", r.ActionKind)
	}

	switch r.Performer.Mode {
	case PerformerAny, PerformerOwnerOnly:
	case PerformerExplicitList:
		if len(r.Performer.AllowedJIDs) == 0 {
			return fmt.Errorf("explicit_list performer filter requires jids")
		}
	default:
		return fmt.Errorf("unknown performer mode %q", r.Performer.Mode)
	}

	switch r.Instances.Mode {
	case InstancesAll:
	case InstancesSubset:
		if len(r.Instances.InstanceIDs) == 0 {
			return fmt.Errorf("subset instance filter requires instance ids")
		}
	default:
		return fmt.Errorf("unknown instance mode %q", r.Instances.Mode)
	}

	if r.CooldownMinutes < 0 {
		return fmt.Errorf("cooldown_minutes must not be negative")
	}
	if r.MaxPerDay < 0 {
		return fmt.Errorf("max_per_day must not be negative")
	}
	return nil
}

// AppliesToInstance reports whether the rule's instance filter admits the
// given instance.
func (r *AutomationRule) AppliesToInstance(instanceID string) bool {
	if r.Instances.Mode != InstancesSubset {
		return true
	}
	for _, id := range r.Instances.InstanceIDs {
		if id == instanceID {
			return true
		}
	}
	return false
}
