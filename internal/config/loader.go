package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "councild.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
// The routing table is YAML-only.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "COUNCILD_PORT")
	setString(&cfg.Server.CORSOrigin, "COUNCILD_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "COUNCILD_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "COUNCILD_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "COUNCILD_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "COUNCILD_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "COUNCILD_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Judge.URL, "JUDGE_URL")
	setString(&cfg.Judge.APIKey, "JUDGE_API_KEY")
	setString(&cfg.Judge.Model, "JUDGE_MODEL")
	setInt(&cfg.Judge.MaxTokens, "JUDGE_MAX_TOKENS")
	setFloat64(&cfg.Judge.Temperature, "JUDGE_TEMPERATURE")
	setDuration(&cfg.Judge.Timeout, "JUDGE_TIMEOUT")
	setString(&cfg.Logging.Level, "COUNCILD_LOG_LEVEL")
	setString(&cfg.Logging.Service, "COUNCILD_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "COUNCILD_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "COUNCILD_BREAKER_TIMEOUT")
	setInt64(&cfg.Cache.MaxSizeMB, "COUNCILD_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "COUNCILD_CACHE_TTL")
	setInt(&cfg.Council.MaxRounds, "COUNCILD_MAX_ROUNDS")
	setFloat64(&cfg.Council.ConfidenceThreshold, "COUNCILD_CONFIDENCE_THRESHOLD")
	setDuration(&cfg.Council.EvaluatorTimeout, "COUNCILD_EVALUATOR_TIMEOUT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Council.MaxRounds < 1 {
		return errors.New("council.max_rounds must be >= 1")
	}
	if cfg.Council.ConfidenceThreshold < 0 || cfg.Council.ConfidenceThreshold > 1 {
		return errors.New("council.confidence_threshold must be in [0, 1]")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
