package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format"               validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig selects and configures the artifact store backend.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a PostgreSQL connection URL or a SQLite file path.
	URL          string `mapstructure:"url"            validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// RedisConfig configures the optional read-through artifact cache.
// An empty URL disables it.
type RedisConfig struct {
	URL       string `mapstructure:"url"        validate:"omitempty,url"`
	Password  string `mapstructure:"password"`
	KeyPrefix string `mapstructure:"key_prefix" validate:"required"`
}

// Enabled reports whether a redis tier should be configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// AuthConfig contains the settings needed to verify bearer tokens issued
// by the external identity provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"          validate:"required"`
	ModelName             string  `mapstructure:"model_name"              validate:"required"`
	Temperature           float32 `mapstructure:"temperature"             validate:"gte=0,lte=2"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gte=1"`
	// MaxAttempts is the total number of provider calls per generation.
	MaxAttempts      int `mapstructure:"max_attempts"        validate:"gte=1,lte=10"`
	RetryBaseDelayMS int `mapstructure:"retry_base_delay_ms" validate:"gte=1"`
	RetryMaxDelayMS  int `mapstructure:"retry_max_delay_ms"  validate:"gtefield=RetryBaseDelayMS"`
	// PromptDir optionally overrides the embedded prompt templates.
	PromptDir string `mapstructure:"prompt_dir"`
}

// GenerationConfig controls the cache-aside refresh policy.
type GenerationConfig struct {
	// FreshTTL is how long generated content is served before regeneration.
	FreshTTL time.Duration `mapstructure:"fresh_ttl"          validate:"gt=0"`
	// FallbackTTL is how long placeholder or stale content is served
	// before the provider is tried again.
	FallbackTTL time.Duration `mapstructure:"fallback_ttl"       validate:"gt=0"`
	// GenerationTimeout bounds one shared generation, retries included.
	GenerationTimeout time.Duration `mapstructure:"generation_timeout" validate:"gt=0"`
	// KindTTLs overrides FreshTTL per content kind (insights, quiz, ...).
	KindTTLs map[string]time.Duration `mapstructure:"kind_ttls"`
}

// TTLFor returns the fresh TTL configured for kind.
func (c GenerationConfig) TTLFor(kind string) time.Duration {
	if ttl, ok := c.KindTTLs[kind]; ok && ttl > 0 {
		return ttl
	}
	return c.FreshTTL
}

// TaskConfig configures the background refresh scheduler.
type TaskConfig struct {
	RefreshEnabled         bool `mapstructure:"refresh_enabled"`
	WorkerCount            int  `mapstructure:"worker_count"             validate:"gte=1"`
	QueueSize              int  `mapstructure:"queue_size"               validate:"gte=1"`
	RefreshIntervalMinutes int  `mapstructure:"refresh_interval_minutes" validate:"gte=1"`
	RefreshBatchSize       int  `mapstructure:"refresh_batch_size"       validate:"gte=1"`
}
