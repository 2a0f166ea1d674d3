package instance

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instance is one connected WhatsApp number. OwnerJID identifies the account
// holder; rules scoped to instance_owner_only only fire for this JID.
type Instance struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	InstanceID string             `json:"instance_id" bson:"instance_id"`
	Name       string             `json:"name" bson:"name"`
	OwnerJID   string             `json:"owner_jid" bson:"owner_jid"`
	Active     bool               `json:"active" bson:"active"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
