package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the environment keys. Values set here are used as the
// fallback for each key; environment variables still win.
type fileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Store struct {
		Backend        string `yaml:"backend"`
		MongoURI       string `yaml:"mongo_uri"`
		MongoDB        string `yaml:"mongo_database"`
		ConnTimeout    string `yaml:"mongo_conn_timeout"`
		MigrateOnStart *bool  `yaml:"migrate_on_start"`
		OverlapScope   string `yaml:"overlap_scope"`
	} `yaml:"store"`

	HTTP struct {
		RateLimitRequests int    `yaml:"rate_limit_requests"`
		RateLimitWindow   string `yaml:"rate_limit_window"`
		RequestTimeout    string `yaml:"request_timeout"`
		IdempotencyTTL    string `yaml:"idempotency_ttl"`
		MaxRequestSize    int    `yaml:"max_request_size"`
		ReadTimeout       string `yaml:"read_timeout"`
		WriteTimeout      string `yaml:"write_timeout"`
		IdleTimeout       string `yaml:"idle_timeout"`
		ShutdownTimeout   string `yaml:"shutdown_timeout"`
	} `yaml:"http"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		Brokers     []string `yaml:"brokers"`
		EventsTopic string   `yaml:"events_topic"`
	} `yaml:"kafka"`
}

func loadFile(path string) (*fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return &fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &fc, nil
}

func orStr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orNum(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func orBool(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}

func orDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}
