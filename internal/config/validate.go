package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration
// and fills provider-dependent defaults. Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}

	if err := c.Extractor.validate(); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (e *ExtractorConfig) validate() error {
	e.Provider = strings.ToLower(strings.TrimSpace(e.Provider))

	switch e.Provider {
	case ProviderOpenAI:
		if e.Model == "" {
			e.Model = DefaultOpenAIModel
		}
	case ProviderAnthropic:
		if e.Model == "" {
			e.Model = DefaultAnthropicModel
		}
	default:
		return fmt.Errorf("provider must be %s or %s (got %q)", ProviderOpenAI, ProviderAnthropic, e.Provider)
	}

	if e.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", e.Timeout)
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", e.MaxRetries)
	}
	if e.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", e.MaxTokens)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))

	switch s.Driver {
	case DriverSupabase:
		if s.SupabaseURL == "" || s.SupabaseKey == "" {
			return fmt.Errorf("supabase_url and supabase_key are required for driver %s", s.Driver)
		}
	case DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for driver %s", s.Driver)
		}
		if s.MaxConns <= 0 {
			return fmt.Errorf("max_conns must be > 0 (got %d)", s.MaxConns)
		}
		if s.MinConns < 0 || s.MinConns > s.MaxConns {
			return fmt.Errorf("min_conns must be in 0..max_conns (got %d)", s.MinConns)
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for driver %s", s.Driver)
		}
	default:
		return fmt.Errorf("driver must be one of %s, %s, %s (got %q)", DriverSupabase, DriverPostgres, DriverSQLite, s.Driver)
	}

	return nil
}
