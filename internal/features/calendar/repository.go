package calendar

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CalendarRepository interface {
	Create(ctx context.Context, e *CalendarEvent) error
	GetByID(ctx context.Context, id string) (*CalendarEvent, error)
	ListByInstance(ctx context.Context, instanceID string) ([]CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

type CalendarRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCalendarRepository(mongodb *database.MongodbDB) CalendarRepository {
	return &CalendarRepositoryImpl{
		Collection: mongodb.DB.Collection("calendar_events"),
	}
}

func (r *CalendarRepositoryImpl) Create(ctx context.Context, e *CalendarEvent) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, e)
	return err
}

func (r *CalendarRepositoryImpl) GetByID(ctx context.Context, id string) (*CalendarEvent, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var e CalendarEvent
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&e)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *CalendarRepositoryImpl) ListByInstance(ctx context.Context, instanceID string) ([]CalendarEvent, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"instance_id": instanceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var events []CalendarEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *CalendarRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
