package config

import "time"

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	// OverlapScopeRoom checks a new booking only against bookings of the same room.
	OverlapScopeRoom = "room"
	// OverlapScopeGlobal checks against every booking regardless of room.
	OverlapScopeGlobal = "global"
)

const (
	DefaultPort     = "8000"
	DefaultLogLevel = "info"

	DefaultStoreBackend      = StoreMemory
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultMongoMigrateOnStart = true

	DefaultOverlapScope = OverlapScopeRoom

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultKafkaEventsTopic = "roomly.events"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
