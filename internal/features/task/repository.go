package task

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByInstance(ctx context.Context, instanceID string) ([]Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTaskRepository(mongodb *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		Collection: mongodb.DB.Collection("tasks"),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, t *Task) error {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	if t.Status == "" {
		t.Status = "pending"
	}
	_, err := r.Collection.InsertOne(ctx, t)
	return err
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (*Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var t Task
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepositoryImpl) ListByInstance(ctx context.Context, instanceID string) ([]Task, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"instance_id": instanceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var tasks []Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
