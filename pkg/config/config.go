package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roomly/pkg/logger"
)

type Config struct {
	Port string

	StoreBackend      string
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	// MongoMigrateOnStart applies the collection validators before serving.
	MongoMigrateOnStart bool

	OverlapScope string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers     []string
	KafkaEventsTopic string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log *logger.Logger
}

// Load reads the configuration and exits the process if it is invalid.
func Load(serviceName string) *Config {
	cfg, err := Parse(serviceName)
	if err != nil {
		if cfg != nil && cfg.Log != nil {
			cfg.Log.Fatal(err.Error())
		}
		logger.New(logger.Config{Service: serviceName}).Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Parse builds a Config from defaults, the optional CONFIG_PATH yaml file and
// the environment, in increasing order of precedence.
func Parse(serviceName string) (*Config, error) {
	fc, err := loadFile(os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port: getEnvStr(EnvPort, orStr(fc.Port, DefaultPort)),

		StoreBackend:      strings.ToLower(getEnvStr(EnvStoreBackend, orStr(fc.Store.Backend, DefaultStoreBackend))),
		MongoURI:          getEnvStr(EnvMongoURI, orStr(fc.Store.MongoURI, DefaultMongoURI)),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, orStr(fc.Store.MongoDB, DefaultMongoDatabaseName)),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, orDuration(fc.Store.ConnTimeout, DefaultMongoConnTimeout)),

		MongoMigrateOnStart: getEnvBool(EnvMongoMigrateOnStart, orBool(fc.Store.MigrateOnStart, DefaultMongoMigrateOnStart)),

		OverlapScope: strings.ToLower(getEnvStr(EnvOverlapScope, orStr(fc.Store.OverlapScope, DefaultOverlapScope))),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, orNum(fc.HTTP.RateLimitRequests, DefaultRateLimitRequests)),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, orDuration(fc.HTTP.RateLimitWindow, DefaultRateLimitWindow)),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, orDuration(fc.HTTP.RequestTimeout, DefaultRequestTimeout)),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, orDuration(fc.HTTP.IdempotencyTTL, DefaultIdempotencyTTL)),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, orNum(fc.HTTP.MaxRequestSize, DefaultMaxRequestSize)),

		RedisAddr:     getEnvStr(EnvRedisAddr, fc.Redis.Addr),
		RedisPassword: getEnvStr(EnvRedisPassword, fc.Redis.Password),
		RedisDB:       getEnvNum(EnvRedisDB, fc.Redis.DB),

		KafkaBrokers:     getEnvList(EnvKafkaBrokers, fc.Kafka.Brokers),
		KafkaEventsTopic: getEnvStr(EnvKafkaEventsTopic, orStr(fc.Kafka.EventsTopic, DefaultKafkaEventsTopic)),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, orDuration(fc.HTTP.ReadTimeout, DefaultReadTimeout)),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, orDuration(fc.HTTP.WriteTimeout, DefaultWriteTimeout)),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, orDuration(fc.HTTP.IdleTimeout, DefaultIdleTimeout)),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, orDuration(fc.HTTP.ShutdownTimeout, DefaultShutdownTimeout)),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, orStr(fc.LogLevel, DefaultLogLevel)),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [%s %s], got: %s", StoreMemory, StoreMongo, cfg.StoreBackend))
	}

	if cfg.OverlapScope != OverlapScopeRoom && cfg.OverlapScope != OverlapScopeGlobal {
		errors = append(errors, fmt.Sprintf("OverlapScope must be one of [%s %s], got: %s", OverlapScopeRoom, OverlapScopeGlobal, cfg.OverlapScope))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaEventsTopic == "" {
		errors = append(errors, "KafkaEventsTopic cannot be empty when KafkaBrokers are set")
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_migrate_on_start", cfg.MongoMigrateOnStart,
		"overlap_scope", cfg.OverlapScope,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_events_topic", cfg.KafkaEventsTopic,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
