package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	MCP       MCPConfig       `yaml:"mcp"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"65536"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// ExtractorConfig holds settings for the text-completion service.
// Model is filled with a provider default during validation when empty.
type ExtractorConfig struct {
	Provider       string        `yaml:"provider"        env:"EXTRACTOR_PROVIDER"        env-default:"openai"`
	APIKey         string        `yaml:"api_key"         env:"EXTRACTOR_API_KEY"`
	ProjectID      string        `yaml:"project_id"      env:"EXTRACTOR_PROJECT_ID"`
	OrganizationID string        `yaml:"organization_id" env:"EXTRACTOR_ORGANIZATION_ID"`
	Model          string        `yaml:"model"           env:"EXTRACTOR_MODEL"`
	BaseURL        string        `yaml:"base_url"        env:"EXTRACTOR_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout"         env:"EXTRACTOR_TIMEOUT"         env-default:"60s"`
	MaxRetries     int           `yaml:"max_retries"     env:"EXTRACTOR_MAX_RETRIES"     env-default:"3"`
	MaxTokens      int64         `yaml:"max_tokens"      env:"EXTRACTOR_MAX_TOKENS"      env-default:"1024"`
}

// StorageConfig selects and configures the entry store.
type StorageConfig struct {
	Driver          string        `yaml:"driver"             env:"STORAGE_DRIVER"              env-default:"supabase"`
	SupabaseURL     string        `yaml:"supabase_url"       env:"SUPABASE_URL"`
	SupabaseKey     string        `yaml:"supabase_key"       env:"SUPABASE_KEY"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	SQLitePath      string        `yaml:"sqlite_path"        env:"SQLITE_PATH"                 env-default:"./nutrition-log.db"`
	Migrate         bool          `yaml:"migrate"            env:"STORAGE_MIGRATE"             env-default:"true"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// MCPConfig controls the MCP tool-call endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// Supported extractor providers and storage drivers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default models per provider.
const (
	DefaultOpenAIModel    = "gpt-4o-2024-08-06"
	DefaultAnthropicModel = "claude-sonnet-4-5"
)
