package bill

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillPayable is a payable expense extracted from a message. Amount is a
// fixed-point Decimal128 so currency math never rides on binary floats.
type BillPayable struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Vendor      string               `json:"vendor" bson:"vendor"`
	Amount      primitive.Decimal128 `json:"amount" bson:"amount"`
	Currency    string               `json:"currency" bson:"currency"`
	Category    string               `json:"category,omitempty" bson:"category,omitempty"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Status      string               `json:"status" bson:"status"`
	InstanceID  string               `json:"instance_id" bson:"instance_id"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}
