package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomly/internal/migrations/mongo/validators"
	"roomly/internal/store"
	"roomly/pkg/logger"
)

type Collection struct {
	Name      string
	Validator bson.M
}

// Collections are created in order. Counters carries no validator because its
// documents are only touched by the id sequence upserts.
var Collections = []Collection{
	{Name: store.RoomsCollection, Validator: validators.RoomValidator},
	{Name: store.CustomersCollection, Validator: validators.CustomerValidator},
	{Name: store.BookingsCollection, Validator: validators.BookingValidator},
	{Name: store.CountersCollection},
}

// RunMigration creates the roomly collections with their schema validators,
// updating the validator of collections that already exist.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections {
		if err := ensureCollection(ctx, db, def, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully", "database", db.Name())
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, def Collection, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: def.Name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", def.Name)
		opts := options.CreateCollection()
		if def.Validator != nil {
			opts.SetValidator(def.Validator)
		}
		if err := db.CreateCollection(ctx, def.Name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", def.Name, err)
		}
		return nil
	}

	if def.Validator == nil {
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: def.Name},
		{Key: "validator", Value: def.Validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating collection validator", "collection", def.Name, "error", err)
	}
	return nil
}
