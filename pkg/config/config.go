package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration for the fix-adapter instance.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "fix-adapter"
	Env         string // e.g. "dev", "uat", "prod"
	Venue       string
	LogLevel    string // "debug", "info", etc.
	Port        int    // service HTTP port

	NATSURL string // e.g. nats://localhost:4222

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	AWSRegion   string        // for AWS SDK client
	CacheTTL    time.Duration // TTL for secret cache
	CleanupFreq time.Duration // frequency for cache cleanup goroutine

	// FIX gateway configuration. Session credentials (comp IDs, password) are
	// resolved from AWS Secrets Manager when FIX_SECRET_NAME is set; the
	// FIX_SENDER_COMP_ID / FIX_TARGET_COMP_ID / FIX_PASSWORD variables act as
	// the local fallback for dev environments.
	FixGatewayURL    string // websocket URL of the FIX gateway drop-copy stream
	FixSecretName    string // AWS Secrets Manager secret holding session credentials
	FixSenderCompID  string
	FixTargetCompID  string
	FixPassword      string
	FixAutoStart     bool // start the initiator on boot instead of waiting for POST /fix/start
	FixDialTimeout   time.Duration
	SubmitRatePerSec int // order submissions per second towards the gateway
	SubmitBurst      int
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:      GetEnv("SERVICE_NAME", "fix-adapter"),
		Env:              GetEnv("ENV", "dev"),
		Venue:            GetEnv("VENUE", "fix"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		Port:             GetEnvInt("FIX_ADAPTER_PORT", 9020),
		NATSURL:          GetEnv("NATS_URL", "nats://localhost:4222"),
		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:    GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		AWSRegion:        GetEnv("AWS_REGION", "us-east-2"),
		CacheTTL:         GetEnvDuration("CACHE_TTL", 24*time.Hour),
		CleanupFreq:      GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),
		FixGatewayURL:    GetEnv("FIX_GATEWAY_URL", "ws://localhost:9880/fix"),
		FixSecretName:    GetEnv("FIX_SECRET_NAME", ""),
		FixSenderCompID:  GetEnv("FIX_SENDER_COMP_ID", "CHECKER"),
		FixTargetCompID:  GetEnv("FIX_TARGET_COMP_ID", "VENUE"),
		FixPassword:      GetEnv("FIX_PASSWORD", ""),
		FixAutoStart:     GetEnvBool("FIX_AUTO_START", false),
		FixDialTimeout:   GetEnvDuration("FIX_DIAL_TIMEOUT", 10*time.Second),
		SubmitRatePerSec: GetEnvInt("SUBMIT_RATE_PER_SEC", 10),
		SubmitBurst:      GetEnvInt("SUBMIT_BURST", 20),
	}

	return cfg
}
