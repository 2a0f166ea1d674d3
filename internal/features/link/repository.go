package link

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LinkRepository interface {
	Create(ctx context.Context, l *MessageEntityLink) error
	ListByMessage(ctx context.Context, messageID, instanceID string) ([]MessageEntityLink, error)
	ListByEntity(ctx context.Context, entityType EntityType, entityID primitive.ObjectID) ([]MessageEntityLink, error)
	// DeleteByEntity is the cascade path when a business record is removed.
	DeleteByEntity(ctx context.Context, entityType EntityType, entityID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type LinkRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLinkRepository(mongodb *database.MongodbDB) LinkRepository {
	return &LinkRepositoryImpl{
		Collection: mongodb.DB.Collection("message_entity_links"),
	}
}

func (r *LinkRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "message_id", Value: 1}, {Key: "instance_id", Value: 1}}},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}},
	})
	return err
}

func (r *LinkRepositoryImpl) Create(ctx context.Context, l *MessageEntityLink) error {
	l.ID = primitive.NewObjectID()
	l.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, l)
	return err
}

func (r *LinkRepositoryImpl) ListByMessage(ctx context.Context, messageID, instanceID string) ([]MessageEntityLink, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"message_id": messageID, "instance_id": instanceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var links []MessageEntityLink
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *LinkRepositoryImpl) ListByEntity(ctx context.Context, entityType EntityType, entityID primitive.ObjectID) ([]MessageEntityLink, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"entity_type": entityType, "entity_id": entityID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var links []MessageEntityLink
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *LinkRepositoryImpl) DeleteByEntity(ctx context.Context, entityType EntityType, entityID primitive.ObjectID) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"entity_type": entityType, "entity_id": entityID})
	return err
}
