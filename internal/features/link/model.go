package link

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EntityType string

const (
	EntityTask  EntityType = "task"
	EntityBill  EntityType = "bill"
	EntityEvent EntityType = "event"
)

type LinkType string

const (
	LinkTrigger LinkType = "trigger"
	LinkContext LinkType = "context"
	LinkReply   LinkType = "reply"
)

// MessageEntityLink ties a business record back to the WhatsApp message it
// came from. Rows are insert-only; they go away only when the parent record
// is deleted.
type MessageEntityLink struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntityType EntityType         `json:"entity_type" bson:"entity_type"`
	EntityID   primitive.ObjectID `json:"entity_id" bson:"entity_id"`
	MessageID  string             `json:"message_id" bson:"message_id"`
	InstanceID string             `json:"instance_id" bson:"instance_id"`
	LinkType   LinkType           `json:"link_type" bson:"link_type"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
