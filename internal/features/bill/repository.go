package bill

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BillRepository interface {
	Create(ctx context.Context, b *BillPayable) error
	GetByID(ctx context.Context, id string) (*BillPayable, error)
	ListByInstance(ctx context.Context, instanceID string) ([]BillPayable, error)
	Delete(ctx context.Context, id string) error
}

type BillRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewBillRepository(mongodb *database.MongodbDB) BillRepository {
	return &BillRepositoryImpl{
		Collection: mongodb.DB.Collection("bills_payable"),
	}
}

func (r *BillRepositoryImpl) Create(ctx context.Context, b *BillPayable) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	if b.Status == "" {
		b.Status = "unpaid"
	}
	_, err := r.Collection.InsertOne(ctx, b)
	return err
}

func (r *BillRepositoryImpl) GetByID(ctx context.Context, id string) (*BillPayable, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var b BillPayable
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BillRepositoryImpl) ListByInstance(ctx context.Context, instanceID string) ([]BillPayable, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"instance_id": instanceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var bills []BillPayable
	if err = cursor.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *BillRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
