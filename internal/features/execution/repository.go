package execution

import (
	"context"
	"fmt"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LedgerRepository interface {
	// Reserve inserts a pending binding row for (rule, message). When a
	// binding row already exists it is returned with existing=true and no
	// row is written; the caller must not run side effects.
	Reserve(ctx context.Context, ruleID primitive.ObjectID, messageID, actorJID string) (rec *ExecutionRecord, existing bool, err error)

	Finalize(ctx context.Context, id primitive.ObjectID, status Status, failureReason string, lowConfidence bool, entities []EntityRef) error
	RecordSkipped(ctx context.Context, ruleID primitive.ObjectID, messageID, actorJID, reason string) error

	CountBindingSince(ctx context.Context, ruleID primitive.ObjectID, since time.Time) (int64, error)
	ListByRule(ctx context.Context, ruleID primitive.ObjectID, limit int64) ([]ExecutionRecord, error)
	StatsByRule(ctx context.Context, ruleID primitive.ObjectID) (*RuleStats, error)

	FailStalePending(ctx context.Context, olderThan time.Time) (int64, error)
	PruneSkipped(ctx context.Context, olderThan time.Time) (int64, error)

	EnsureIndexes(ctx context.Context) error
}

type LedgerRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLedgerRepository(mongodb *database.MongodbDB) LedgerRepository {
	return &LedgerRepositoryImpl{
		Collection: mongodb.DB.Collection("executions"),
	}
}

func (r *LedgerRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// At most one binding row per (rule, message). Skipped rows are
			// observability only and stay out of the constraint.
			Keys: bson.D{{Key: "rule_id", Value: 1}, {Key: "message_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"binding": bson.M{"$eq": true}}),
		},
		{Keys: bson.D{{Key: "rule_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}

func (r *LedgerRepositoryImpl) Reserve(ctx context.Context, ruleID primitive.ObjectID, messageID, actorJID string) (*ExecutionRecord, bool, error) {
	rec := &ExecutionRecord{
		ID:        primitive.NewObjectID(),
		RuleID:    ruleID,
		MessageID: messageID,
		ActorJID:  actorJID,
		Status:    StatusPending,
		Binding:   true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.Collection.InsertOne(ctx, rec)
	if err == nil {
		return rec, false, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, err
	}

	var existing ExecutionRecord
	ferr := r.Collection.FindOne(ctx, bson.M{
		"rule_id":    ruleID,
		"message_id": messageID,
		"binding":    true,
	}).Decode(&existing)
	if ferr != nil {
		return nil, false, fmt.Errorf("duplicate execution lookup: %w", ferr)
	}
	return &existing, true, nil
}

func (r *LedgerRepositoryImpl) Finalize(ctx context.Context, id primitive.ObjectID, status Status, failureReason string, lowConfidence bool, entities []EntityRef) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":         status,
		"low_confidence": lowConfidence,
		"completed_at":   now,
	}
	if failureReason != "" {
		set["failure_reason"] = failureReason
	}
	if len(entities) > 0 {
		set["entities"] = entities
	}
	_, err := r.Collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (r *LedgerRepositoryImpl) RecordSkipped(ctx context.Context, ruleID primitive.ObjectID, messageID, actorJID, reason string) error {
	rec := &ExecutionRecord{
		ID:         primitive.NewObjectID(),
		RuleID:     ruleID,
		MessageID:  messageID,
		ActorJID:   actorJID,
		Status:     StatusSkipped,
		Binding:    false,
		SkipReason: reason,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := r.Collection.InsertOne(ctx, rec)
	return err
}

func (r *LedgerRepositoryImpl) CountBindingSince(ctx context.Context, ruleID primitive.ObjectID, since time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{
		"rule_id":    ruleID,
		"binding":    true,
		"created_at": bson.M{"$gte": since},
	})
}

func (r *LedgerRepositoryImpl) ListByRule(ctx context.Context, ruleID primitive.ObjectID, limit int64) ([]ExecutionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"rule_id": ruleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var recs []ExecutionRecord
	if err = cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *LedgerRepositoryImpl) StatsByRule(ctx context.Context, ruleID primitive.ObjectID) (*RuleStats, error) {
	stats := &RuleStats{RuleID: ruleID}
	var err error
	if stats.Successes, err = r.Collection.CountDocuments(ctx, bson.M{"rule_id": ruleID, "status": StatusSuccess}); err != nil {
		return nil, err
	}
	if stats.Failures, err = r.Collection.CountDocuments(ctx, bson.M{"rule_id": ruleID, "status": StatusFailure}); err != nil {
		return nil, err
	}
	if stats.Skipped, err = r.Collection.CountDocuments(ctx, bson.M{"rule_id": ruleID, "status": StatusSkipped}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *LedgerRepositoryImpl) FailStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	now := time.Now().UTC()
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"status": StatusPending, "created_at": bson.M{"$lt": olderThan}},
		bson.M{"$set": bson.M{
			"status":         StatusFailure,
			"failure_reason": ReasonStalled,
			"completed_at":   now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *LedgerRepositoryImpl) PruneSkipped(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{
		"status":     StatusSkipped,
		"created_at": bson.M{"$lt": olderThan},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
