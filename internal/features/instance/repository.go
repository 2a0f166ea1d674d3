package instance

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InstanceRepository interface {
	Create(ctx context.Context, inst *Instance) error
	GetByInstanceID(ctx context.Context, instanceID string) (*Instance, error)
	List(ctx context.Context) ([]Instance, error)
	Update(ctx context.Context, inst *Instance) error
	Delete(ctx context.Context, instanceID string) error
	EnsureIndexes(ctx context.Context) error
}

type InstanceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewInstanceRepository(mongodb *database.MongodbDB) InstanceRepository {
	return &InstanceRepositoryImpl{
		Collection: mongodb.DB.Collection("instances"),
	}
}

func (r *InstanceRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "instance_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *InstanceRepositoryImpl) Create(ctx context.Context, inst *Instance) error {
	inst.ID = primitive.NewObjectID()
	inst.CreatedAt = time.Now()
	inst.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, inst)
	return err
}

func (r *InstanceRepositoryImpl) GetByInstanceID(ctx context.Context, instanceID string) (*Instance, error) {
	var inst Instance
	err := r.Collection.FindOne(ctx, bson.M{"instance_id": instanceID}).Decode(&inst)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inst, nil
}

func (r *InstanceRepositoryImpl) List(ctx context.Context) ([]Instance, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var instances []Instance
	if err = cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *InstanceRepositoryImpl) Update(ctx context.Context, inst *Instance) error {
	inst.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"instance_id": inst.InstanceID}, bson.M{"$set": inst})
	return err
}

func (r *InstanceRepositoryImpl) Delete(ctx context.Context, instanceID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"instance_id": instanceID})
	return err
}
