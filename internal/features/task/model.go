package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Priority    string              `json:"priority" bson:"priority"`
	Status      string              `json:"status" bson:"status"`
	DueDate     *time.Time          `json:"due_date,omitempty" bson:"due_date,omitempty"`
	ParentID    *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Tags        []string            `json:"tags,omitempty" bson:"tags,omitempty"`
	InstanceID  string              `json:"instance_id" bson:"instance_id"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}
