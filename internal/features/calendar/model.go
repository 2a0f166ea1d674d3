package calendar

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CalendarEvent struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Start       time.Time          `json:"start" bson:"start"`
	End         time.Time          `json:"end" bson:"end"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	IsVirtual   bool               `json:"is_virtual" bson:"is_virtual"`
	MeetingLink string             `json:"meeting_link,omitempty" bson:"meeting_link,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Attendees   []string           `json:"attendees,omitempty" bson:"attendees,omitempty"`
	InstanceID  string             `json:"instance_id" bson:"instance_id"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
