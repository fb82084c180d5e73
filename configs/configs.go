// Package configs provides application configuration loaded from environment
// variables. All configuration is externalized via environment variables for
// 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backoff strategies for the feed reconnect loop.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Sink failure policies for flushed batches the store refused.
const (
	FailurePolicyDrop  = "drop"
	FailurePolicySpool = "spool"
)

// BotConfig holds all configuration for the ingestion process.
// Load it once at startup using BotLoad().
type BotConfig struct {
	// FeedURL is the trade stream WebSocket endpoint.
	FeedURL string

	// Storage contains object storage settings shared with the dashboard.
	Storage StorageConfig

	// Telegram contains alert delivery credentials.
	Telegram TelegramConfig

	// WhaleThreshold is the minimum quantity (base asset) that raises an alert.
	WhaleThreshold float64

	// FlushInterval is the minimum wall-clock time between snapshot flushes.
	FlushInterval time.Duration

	// PingInterval is how often a heartbeat ping is sent on the feed connection.
	PingInterval time.Duration

	// PongTimeout is how long to wait for a heartbeat response before the
	// connection is considered dead.
	PongTimeout time.Duration

	// ReconnectBackoff selects the delay strategy between reconnect attempts:
	// "fixed" or "exponential".
	ReconnectBackoff string

	// ReconnectDelay is the fixed delay (or the exponential floor) between
	// reconnect attempts.
	ReconnectDelay time.Duration

	// SinkFailurePolicy selects what happens to a batch the store refused:
	// "drop" discards it, "spool" parks it on local disk for later upload.
	SinkFailurePolicy string

	// SpoolDir is where spooled snapshots live when SinkFailurePolicy is "spool".
	SpoolDir string
}

// DashboardConfig holds all configuration for the dashboard process.
type DashboardConfig struct {
	// Storage contains object storage settings shared with the bot.
	Storage StorageConfig

	// RecencyWindow bounds how far back the dashboard dataset reaches.
	RecencyWindow time.Duration

	// MaxSnapshots caps how many snapshot objects one load will download.
	MaxSnapshots int

	// CacheTTL is how long a loaded dataset is served before the lake is
	// re-read.
	CacheTTL time.Duration

	// WhaleChartMin is the minimum quantity for the whales endpoint filter.
	WhaleChartMin float64

	// ServerPort is the HTTP listen port.
	ServerPort string
}

// StorageConfig holds object storage settings.
type StorageConfig struct {
	// Bucket is the object storage bucket name.
	Bucket string

	// KeyPrefix is the snapshot key prefix (e.g., "btc_trades").
	KeyPrefix string
}

// TelegramConfig holds Telegram bot credentials.
type TelegramConfig struct {
	// Token is the bot API token.
	Token string

	// ChatID is the target chat for alerts.
	ChatID string
}

// BotLoad loads the ingestion process configuration from environment
// variables. It attempts to load a .env file first (for local development).
// Returns an error naming every missing required variable; the caller is
// expected to exit before opening any connection.
func BotLoad() (*BotConfig, error) {
	_ = godotenv.Load() // Ignore error - .env is optional

	cfg := &BotConfig{
		FeedURL:           os.Getenv("FEED_URL"),
		Storage:           loadStorage(),
		WhaleThreshold:    getEnvFloat("WHALE_THRESHOLD", 1.0),
		FlushInterval:     getEnvDuration("FLUSH_INTERVAL", 60*time.Second),
		PingInterval:      getEnvDuration("PING_INTERVAL", 60*time.Second),
		PongTimeout:       getEnvDuration("PONG_TIMEOUT", 10*time.Second),
		ReconnectBackoff:  getEnv("RECONNECT_BACKOFF", BackoffFixed),
		ReconnectDelay:    getEnvDuration("RECONNECT_DELAY", 5*time.Second),
		SinkFailurePolicy: getEnv("SINK_FAILURE_POLICY", FailurePolicyDrop),
		SpoolDir:          getEnv("SPOOL_DIR", "./spool"),
		Telegram: TelegramConfig{
			Token:  os.Getenv("TELEGRAM_TOKEN"),
			ChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		},
	}

	var missing []string
	if cfg.FeedURL == "" {
		missing = append(missing, "FEED_URL")
	}
	if cfg.Storage.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if cfg.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if cfg.Telegram.ChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch cfg.ReconnectBackoff {
	case BackoffFixed, BackoffExponential:
	default:
		return nil, fmt.Errorf("invalid RECONNECT_BACKOFF %q (want %q or %q)",
			cfg.ReconnectBackoff, BackoffFixed, BackoffExponential)
	}

	switch cfg.SinkFailurePolicy {
	case FailurePolicyDrop, FailurePolicySpool:
	default:
		return nil, fmt.Errorf("invalid SINK_FAILURE_POLICY %q (want %q or %q)",
			cfg.SinkFailurePolicy, FailurePolicyDrop, FailurePolicySpool)
	}

	return cfg, nil
}

// DashboardLoad loads the dashboard process configuration from environment
// variables. Only the bucket is required; everything else has defaults.
func DashboardLoad() (*DashboardConfig, error) {
	_ = godotenv.Load()

	cfg := &DashboardConfig{
		Storage:       loadStorage(),
		RecencyWindow: getEnvDuration("RECENCY_WINDOW", 4*time.Hour),
		MaxSnapshots:  getEnvInt("MAX_SNAPSHOTS", 200),
		CacheTTL:      getEnvDuration("CACHE_TTL", 60*time.Second),
		WhaleChartMin: getEnvFloat("WHALE_CHART_MIN", 0.05),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
	}

	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("missing required environment variable: S3_BUCKET")
	}

	return cfg, nil
}

func loadStorage() StorageConfig {
	return StorageConfig{
		Bucket:    os.Getenv("S3_BUCKET"),
		KeyPrefix: getEnv("SNAPSHOT_PREFIX", "btc_trades"),
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration returns the environment variable parsed as a time.Duration
// ("90s", "4h") or a default. A bare integer is read as seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
