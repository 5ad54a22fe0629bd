package garageRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// MongoStore implements Repository for one collection.
type MongoStore[T any] struct {
	coll         *mongo.Collection
	searchFields []string
}

func newMongoStore[T any](coll *mongo.Collection, searchFields ...string) *MongoStore[T] {
	return &MongoStore[T]{coll: coll, searchFields: searchFields}
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (s *MongoStore[T]) Insert(ctx context.Context, doc *T) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *MongoStore[T]) Get(ctx context.Context, ownerID, id string) (*T, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc T
	if err := s.coll.FindOne(ctx, bson.M{"id": id, "ownerId": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", s.coll.Name(), id, err)
	}
	return &doc, nil
}

func (s *MongoStore[T]) List(ctx context.Context, ownerID string, q Query) ([]T, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(max(q.Skip, 0))

	cursor, err := s.coll.Find(ctx, s.filter(ownerID, q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s *MongoStore[T]) Count(ctx context.Context, ownerID string, q Query) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, s.filter(ownerID, q))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.coll.Name(), err)
	}
	return n, nil
}

func (s *MongoStore[T]) Replace(ctx context.Context, ownerID, id string, doc *T) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"id": id, "ownerId": ownerID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", s.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id, "ownerId": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", s.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) Push(ctx context.Context, ownerID, id, field string, value any) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id, "ownerId": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to push to %s/%s.%s: %w", s.coll.Name(), id, field, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) filter(ownerID string, q Query) bson.M {
	filter := bson.M{"ownerId": ownerID}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.ClientID != "" {
		filter["clientId"] = q.ClientID
	}
	if q.VehicleID != "" {
		filter["vehicleId"] = q.VehicleID
	}
	if q.TemplateID != "" {
		filter["templateId"] = q.TemplateID
	}
	if q.Search != "" && len(s.searchFields) > 0 {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		or := make([]bson.M, 0, len(s.searchFields))
		for _, f := range s.searchFields {
			or = append(or, bson.M{f: pattern})
		}
		filter["$or"] = or
	}
	return filter
}
