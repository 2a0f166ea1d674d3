package engine

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventReaction EventType = "reaction"
	EventMessage  EventType = "message"
)

// TriggerEvent is the normalized representation of one incoming message or
// reaction. It is built by the webhook layer and consumed once.
type TriggerEvent struct {
	Type       EventType `json:"type"`
	InstanceID string    `json:"instance_id"`
	ChatID     string    `json:"chat_id"`
	MessageID  string    `json:"message_id"`
	SenderJID  string    `json:"sender_jid"`
	ReactorJID string    `json:"reactor_jid,omitempty"`
	Emoji      string    `json:"emoji,omitempty"`
	Content    string    `json:"content,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActorJID is the JID whose action caused the event: the reactor for
// reactions, the sender otherwise.
func (e *TriggerEvent) ActorJID() string {
	if e.Type == EventReaction && e.ReactorJID != "" {
		return e.ReactorJID
	}
	return e.SenderJID
}

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

type RejectReason string

const (
	ReasonTriggerMismatch   RejectReason = "trigger_mismatch"
	ReasonPerformerMismatch RejectReason = "performer_mismatch"
	ReasonInstanceExcluded  RejectReason = "instance_excluded"
	ReasonCooldownActive    RejectReason = "cooldown_active"
	ReasonQuotaExceeded     RejectReason = "quota_exceeded"
	ReasonConditionFailed   RejectReason = "condition_failed"
)

// FilterDecision is the evaluator's verdict for one (event, rule) pair.
type FilterDecision struct {
	RuleID  primitive.ObjectID
	Outcome Outcome
	Reason  RejectReason
}

func accepted(ruleID primitive.ObjectID) FilterDecision {
	return FilterDecision{RuleID: ruleID, Outcome: OutcomeAccepted}
}

func rejected(ruleID primitive.ObjectID, reason RejectReason) FilterDecision {
	return FilterDecision{RuleID: ruleID, Outcome: OutcomeRejected, Reason: reason}
}
