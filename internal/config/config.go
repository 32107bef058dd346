package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default source locations.
const (
	DefaultIncomeSourceURL = "https://raw.githubusercontent.com/pri-data/50-states/master/data/income-counties-states-national.csv"
	DefaultStatesSourceURL = "https://raw.githubusercontent.com/python-visualization/folium-example-data/main/us_states.json"
	DefaultAbbrevSourceURL = "https://gist.githubusercontent.com/tvpmb/4734703/raw/b54d03154c339ed3047c66fefcece4727dfc931a/US%2520State%2520List"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// Source documents. Each is an http(s) URL or a local file path.
	IncomeSourceURL string
	StatesSourceURL string
	AbbrevSourceURL string
	FetchTimeout    time.Duration
	FetchMaxRetries int

	// View caching. A zero TTL refetches the sources on every request.
	ViewCacheTTL  time.Duration
	ViewCacheSize int

	// Kafka snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "15s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	fetchMaxRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("FETCH_MAX_RETRIES", "3"))
	if err != nil || fetchMaxRetries < 0 || fetchMaxRetries > 10 {
		return nil, errors.New("invalid FETCH_MAX_RETRIES: must be between 0 and 10")
	}

	viewCacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("VIEW_CACHE_TTL", "10m"))
	if err != nil || viewCacheTTL < 0 {
		return nil, errors.New("invalid VIEW_CACHE_TTL")
	}

	kafkaBrokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		IncomeSourceURL: sharedcfg.EnvOrDefault("INCOME_SOURCE_URL", DefaultIncomeSourceURL),
		StatesSourceURL: sharedcfg.EnvOrDefault("STATES_SOURCE_URL", DefaultStatesSourceURL),
		AbbrevSourceURL: sharedcfg.EnvOrDefault("ABBREV_SOURCE_URL", DefaultAbbrevSourceURL),
		FetchTimeout:    fetchTimeout,
		FetchMaxRetries: fetchMaxRetries,

		ViewCacheTTL:  viewCacheTTL,
		ViewCacheSize: parseViewCacheSize(),

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       kafkaBrokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "state-income-snapshots"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func parseViewCacheSize() int {
	if s := os.Getenv("VIEW_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 4
}
