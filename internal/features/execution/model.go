package execution

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	// StatusPending reserves the (rule, message) slot before side effects
	// run; a pending row blocks concurrent duplicates the same way a final
	// one does.
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Failure reasons recorded on the ledger row.
const (
	ReasonNoEntityExtracted = "no_entity_extracted"
	ReasonPersistenceFailed = "persistence_failed"
	ReasonStalled           = "stalled"
)

// EntityRef points at a business record created by an execution.
type EntityRef struct {
	Type string             `json:"type" bson:"type"`
	ID   primitive.ObjectID `json:"id" bson:"id"`
}

// ExecutionRecord is one ledger row. Binding is true for every non-skipped
// row; the unique index on (rule_id, message_id) is restricted to binding
// rows, which is the at-most-once guarantee.
type ExecutionRecord struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RuleID    primitive.ObjectID `json:"rule_id" bson:"rule_id"`
	MessageID string             `json:"message_id" bson:"message_id"`
	ActorJID  string             `json:"actor_jid" bson:"actor_jid"`

	Status        Status `json:"status" bson:"status"`
	Binding       bool   `json:"-" bson:"binding"`
	FailureReason string `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	SkipReason    string `json:"skip_reason,omitempty" bson:"skip_reason,omitempty"`
	LowConfidence bool   `json:"low_confidence" bson:"low_confidence"`

	Entities []EntityRef `json:"entities,omitempty" bson:"entities,omitempty"`

	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// RuleStats summarizes the ledger for one rule.
type RuleStats struct {
	RuleID    primitive.ObjectID `json:"rule_id"`
	Successes int64              `json:"successes"`
	Failures  int64              `json:"failures"`
	Skipped   int64              `json:"skipped"`
}
