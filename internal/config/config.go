package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// Ticketmaster Discovery API configuration.
	TicketmasterAPIKey     string
	TicketmasterBaseURL    string
	TicketmasterTimeout    time.Duration
	TicketmasterImageIndex int

	// Nominatim geocoding configuration.
	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	NominatimRateLimit float64

	// Optional Kafka publication of discovery results.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	requestTimeout, err := parsePositiveDuration("REQUEST_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	tmTimeout, err := parsePositiveDuration("TICKETMASTER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := parsePositiveDuration("NOMINATIM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	imageIndex, err := strconv.Atoi(sharedcfg.EnvOrDefault("TICKETMASTER_IMAGE_INDEX", "3"))
	if err != nil || imageIndex < 0 {
		return nil, errors.New("invalid TICKETMASTER_IMAGE_INDEX")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NOMINATIM_RATE_LIMIT")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RequestTimeout:  requestTimeout,

		TicketmasterAPIKey:     os.Getenv("TICKETMASTER_API_KEY"),
		TicketmasterBaseURL:    sharedcfg.EnvOrDefault("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2"),
		TicketmasterTimeout:    tmTimeout,
		TicketmasterImageIndex: imageIndex,

		NominatimBaseURL:   sharedcfg.EnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "event-discovery-service/1.0"),
		NominatimTimeout:   nominatimTimeout,
		NominatimRateLimit: rateLimit,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "discovered-events"),
	}

	if cfg.TicketmasterAPIKey == "" {
		return nil, errors.New("TICKETMASTER_API_KEY is required")
	}
	if cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_USER_AGENT is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
