package garageRepo

import (
	"context"
	"fmt"
	"time"

	"garagedesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repositories groups the garage collections.
type Repositories struct {
	Clients            *MongoStore[models.Client]
	Vehicles           *MongoStore[models.Vehicle]
	Invoices           *MongoStore[models.Invoice]
	GuaranteeTemplates *MongoStore[models.GuaranteeTemplate]
	Guarantees         *MongoStore[models.Guarantee]
	RepairOrders       *MongoStore[models.RepairOrder]
	Counters           *MongoCounters
}

// NewRepositories binds every garage collection of db and ensures indexes.
func NewRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	repos := &Repositories{
		Clients:            newMongoStore[models.Client](db.Collection("clients"), "firstName", "lastName", "company", "email", "phone"),
		Vehicles:           newMongoStore[models.Vehicle](db.Collection("vehicles"), "make", "model", "plate", "vin"),
		Invoices:           newMongoStore[models.Invoice](db.Collection("invoices"), "number"),
		GuaranteeTemplates: newMongoStore[models.GuaranteeTemplate](db.Collection("guarantee_templates"), "name"),
		Guarantees:         newMongoStore[models.Guarantee](db.Collection("guarantees"), "name"),
		RepairOrders:       newMongoStore[models.RepairOrder](db.Collection("repair_orders"), "number", "technician", "description"),
		Counters:           &MongoCounters{coll: db.Collection("counters")},
	}

	colls := []*mongo.Collection{
		repos.Clients.coll, repos.Vehicles.coll, repos.Invoices.coll,
		repos.GuaranteeTemplates.coll, repos.Guarantees.coll, repos.RepairOrders.coll,
	}
	for _, coll := range colls {
		if err := ensureIndexes(ctx, coll); err != nil {
			return nil, err
		}
	}
	return repos, nil
}

// ensureIndexes creates the owner-scoped indexes shared by all garage collections.
func ensureIndexes(ctx context.Context, coll *mongo.Collection) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

// MongoCounters implements Sequencer with one document per owner and name.
type MongoCounters struct {
	coll *mongo.Collection
}

func (c *MongoCounters) Next(ctx context.Context, ownerID, name string) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"ownerId": ownerID, "name": name}
	update := bson.M{"$inc": bson.M{"value": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc struct {
		Value int64 `bson:"value"`
	}
	if err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return doc.Value, nil
}
