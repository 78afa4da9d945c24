// File: database/repository/subscription/interface.go
package subscriptionRepo

import (
	"context"

	"carbooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type SubscriptionRepository interface {
	// Upsert stores sub keyed by its ID; re-registering the same target is a no-op.
	Upsert(ctx context.Context, sub models.PushSubscription) error
	GetAll(ctx context.Context) ([]models.PushSubscription, error)
}

type mongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo constructs a MongoDB backed SubscriptionRepository on db.
func NewMongoSubscriptionRepo(db *mongo.Database) SubscriptionRepository {
	return &mongoSubscriptionRepo{
		coll: db.Collection("push_subscriptions"),
	}
}
