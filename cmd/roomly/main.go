package main

import (
	"context"
	"time"

	bookinghandler "roomly/internal/bookings/handler"
	bookingservice "roomly/internal/bookings/service"
	mongomigrations "roomly/internal/migrations/mongo"
	roomhandler "roomly/internal/rooms/handler"
	roomservice "roomly/internal/rooms/service"
	"roomly/internal/store"
	"roomly/internal/validation"
	"roomly/pkg/app"
	"roomly/pkg/client"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafka_middleware "roomly/pkg/kafka/middleware"
	"roomly/pkg/middleware"

	"github.com/redis/go-redis/v9"
)

const ServiceName = "roomly"

const publishTimeout = 5 * time.Second

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Roomly service")

	serverApp := app.NewApplication(cfg)

	st := initStore(cfg, serverApp)
	publisher := initPublisher(cfg, serverApp)
	idempotencyStore := initIdempotencyStore(cfg, serverApp)

	requestValidator := validation.NewRequestValidator(cfg.Log)
	roomService := roomservice.NewRoomService(st, requestValidator, publisher, cfg)
	bookingService := bookingservice.NewBookingService(st, requestValidator, publisher, cfg)

	serverApp.SetApp(st, idempotencyStore,
		roomhandler.NewRoomHandler(roomService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func initStore(cfg *config.Config, serverApp *app.Application) store.Store {
	if cfg.StoreBackend != config.StoreMongo {
		cfg.Log.Info("Using in-memory store")
		return store.NewMemoryStore()
	}

	mongoClient, err := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	serverApp.OnShutdown("mongo", func() error {
		return mongoClient.Disconnect(context.Background())
	})

	if cfg.MongoMigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
		defer cancel()
		if err := mongomigrations.RunMigration(ctx, mongoClient.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
			cfg.Log.Fatal("Mongo migration failed", "error", err)
		}
	}

	mongoStore := store.NewMongoStore(mongoClient, cfg.MongoDatabaseName, store.MongoConfig{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to create MongoDB indexes", "error", err)
	}

	cfg.Log.Info("Using MongoDB store", "database", cfg.MongoDatabaseName)
	return mongoStore
}

func initPublisher(cfg *config.Config, serverApp *app.Application) kafka.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, domain events are disabled")
		return kafka.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaEventsTopic,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequireAcks:  -1,
		Compression:  "snappy",
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	publisher := kafka.NewEventPublisher(producer, ServiceName, publishTimeout, cfg.Log)
	serverApp.OnShutdown("kafka", publisher.Close)

	cfg.Log.Info("Kafka event publisher initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaEventsTopic,
	)
	return publisher
}

// initIdempotencyStore returns nil when Redis is not configured, which makes
// the application fall back to the in-memory store.
func initIdempotencyStore(cfg *config.Config, serverApp *app.Application) middleware.IdempotencyStore {
	if cfg.RedisAddr == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	serverApp.OnShutdown("redis", redisClient.Close)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cfg.Log.Fatal("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
	}

	cfg.Log.Info("Using Redis idempotency store", "addr", cfg.RedisAddr)
	return middleware.NewRedisIdempotencyStore(redisClient, cfg.IdempotencyTTL, cfg.Log)
}
