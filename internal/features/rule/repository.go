package rule

import (
	"context"
	"time"

	"whatsflow/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Outcome of one rule execution, used for counter updates.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type RuleRepository interface {
	Create(ctx context.Context, rule *AutomationRule) error
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	ListActiveByTriggerType(ctx context.Context, triggerType TriggerType) ([]AutomationRule, error)
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, id string) error
	Enable(ctx context.Context, id string, active bool) error

	// IncrementCounters bumps execution_count plus the outcome counter and,
	// on success, last_executed_at, in one UpdateOne so concurrent triggers
	// for the same rule cannot lose updates.
	IncrementCounters(ctx context.Context, id primitive.ObjectID, outcome Outcome, executedAt time.Time) error
}

type RuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRuleRepository(mongodb *database.MongodbDB) RuleRepository {
	return &RuleRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_rules"),
	}
}

func (r *RuleRepositoryImpl) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, rule)
	return err
}

func (r *RuleRepositoryImpl) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var rule AutomationRule
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepositoryImpl) List(ctx context.Context) ([]AutomationRule, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActiveByTriggerType returns active rules in creation order, which is
// the engine's deterministic execution order.
func (r *RuleRepositoryImpl) ListActiveByTriggerType(ctx context.Context, triggerType TriggerType) ([]AutomationRule, error) {
	filter := bson.M{"trigger_type": triggerType, "active": true}
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RuleRepositoryImpl) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": rule.ID}, bson.M{"$set": rule})
	return err
}

func (r *RuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *RuleRepositoryImpl) Enable(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}})
	return err
}

func (r *RuleRepositoryImpl) IncrementCounters(ctx context.Context, id primitive.ObjectID, outcome Outcome, executedAt time.Time) error {
	inc := bson.M{"execution_count": 1}
	set := bson.M{"updated_at": time.Now()}
	if outcome == OutcomeSuccess {
		inc["success_count"] = 1
		// Cooldown measures from the last successful execution only; a
		// failed attempt must not push the window forward.
		set["last_executed_at"] = executedAt
	} else {
		inc["failure_count"] = 1
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc, "$set": set})
	return err
}
