package main

import (
	"context"
	"time"

	mongomigrations "roomly/internal/migrations/mongo"
	"roomly/internal/store"
	"roomly/pkg/client"
	"roomly/pkg/config"
)

const JobName = "roomly-migration"

func main() {
	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoClient, err := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	if err := mongomigrations.RunMigration(ctx, mongoClient.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	mongoStore := store.NewMongoStore(mongoClient, cfg.MongoDatabaseName, store.MongoConfig{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create MongoDB indexes", "error", err)
	}

	cfg.Log.Info("Migration completed successfully")
}
