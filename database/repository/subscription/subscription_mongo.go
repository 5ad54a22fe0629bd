package subscriptionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagedesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo creates the repository and ensures its indexes.
func NewMongoSubscriptionRepo(ctx context.Context, db *mongo.Database) (*MongoSubscriptionRepo, error) {
	repo := &MongoSubscriptionRepo{coll: db.Collection("subscriptions")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoSubscriptionRepo) Create(ctx context.Context, rec *models.SubscriptionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to create subscription %s: %w", rec.ID, err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) Save(ctx context.Context, rec *models.SubscriptionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": rec.ID}, rec, opts); err != nil {
		return fmt.Errorf("failed to save subscription %s: %w", rec.ID, err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) FindByUserAndID(ctx context.Context, userID, id string) (*models.SubscriptionRecord, error) {
	return r.findOne(ctx, bson.M{"id": id, "userId": userID}, nil)
}

func (r *MongoSubscriptionRepo) FindByProviderSubscriptionID(ctx context.Context, subscriptionID string) (*models.SubscriptionRecord, error) {
	return r.findOne(ctx, bson.M{"subscriptionId": subscriptionID}, nil)
}

func (r *MongoSubscriptionRepo) FindCustomerID(ctx context.Context, userID string) (string, error) {
	filter := bson.M{"userId": userID, "customerId": bson.M{"$exists": true, "$ne": ""}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"customerId": 1})
	rec, err := r.findOne(ctx, filter, opts)
	if err != nil || rec == nil {
		return "", err
	}
	return rec.CustomerID, nil
}

func (r *MongoSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]models.SubscriptionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	records := []models.SubscriptionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return records, nil
}

func (r *MongoSubscriptionRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.SubscriptionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if opts == nil {
		opts = options.FindOne()
	}
	var rec models.SubscriptionRecord
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return &rec, nil
}
