package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Council.MaxRounds != 5 {
		t.Errorf("expected max_rounds 5, got %d", cfg.Council.MaxRounds)
	}
	if cfg.Council.ConfidenceThreshold != 0.75 {
		t.Errorf("expected confidence_threshold 0.75, got %v", cfg.Council.ConfidenceThreshold)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
	if len(cfg.Council.Routing) != 5 {
		t.Errorf("expected routing entries for the 5 built-in evaluators, got %d", len(cfg.Council.Routing))
	}
}

func TestDefaultRoutingCoversBuiltins(t *testing.T) {
	routing := DefaultRouting()
	for _, name := range []string{"risk_analysis", "devils_advocate", "personal_suitability", "market_analysis", "feasibility_analysis"} {
		if _, ok := routing[name]; !ok {
			t.Errorf("no routing entry for %s", name)
		}
	}
	// The critic is routed the risk output; that is the only cross-evaluator edge.
	found := false
	for _, term := range routing["devils_advocate"] {
		if term == "risk_analysis" {
			found = true
		}
	}
	if !found {
		t.Error("devils_advocate must be routed the risk_analysis output")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
council:
  max_rounds: 7
  confidence_threshold: 0.8
  routing:
    solo: ["profile", "candidate"]
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Council.MaxRounds != 7 {
		t.Errorf("expected max_rounds 7, got %d", cfg.Council.MaxRounds)
	}
	if cfg.Council.ConfidenceThreshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %v", cfg.Council.ConfidenceThreshold)
	}
	if _, ok := cfg.Council.Routing["solo"]; !ok {
		t.Error("expected YAML routing entry for solo")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/path.yaml"); err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("COUNCILD_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("COUNCILD_MAX_ROUNDS", "9")
	t.Setenv("COUNCILD_CONFIDENCE_THRESHOLD", "0.6")
	t.Setenv("COUNCILD_EVALUATOR_TIMEOUT", "45s")
	t.Setenv("JUDGE_URL", "http://localhost:4000/v1")
	t.Setenv("JUDGE_MODEL", "openai/gpt-4o")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Council.MaxRounds != 9 {
		t.Errorf("expected max_rounds 9, got %d", cfg.Council.MaxRounds)
	}
	if cfg.Council.ConfidenceThreshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", cfg.Council.ConfidenceThreshold)
	}
	if cfg.Council.EvaluatorTimeout != 45*time.Second {
		t.Errorf("expected evaluator timeout 45s, got %v", cfg.Council.EvaluatorTimeout)
	}
	if cfg.Judge.URL != "http://localhost:4000/v1" {
		t.Errorf("expected judge URL, got %s", cfg.Judge.URL)
	}
	if cfg.Judge.Model != "openai/gpt-4o" {
		t.Errorf("expected judge model override, got %s", cfg.Judge.Model)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty DSN",
			modify: func(c *Config) { c.Postgres.DSN = "" },
			errMsg: "postgres.dsn is required",
		},
		{
			name:   "empty NATS URL",
			modify: func(c *Config) { c.NATS.URL = "" },
			errMsg: "nats.url is required",
		},
		{
			name:   "zero max rounds",
			modify: func(c *Config) { c.Council.MaxRounds = 0 },
			errMsg: "council.max_rounds must be >= 1",
		},
		{
			name:   "threshold above one",
			modify: func(c *Config) { c.Council.ConfidenceThreshold = 1.5 },
			errMsg: "council.confidence_threshold must be in [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != tt.errMsg {
				t.Fatalf("error = %q, want %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoadFromValidConfig(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path.yaml")
	if err != nil {
		t.Fatalf("defaults alone must validate, got %v", err)
	}
	if cfg.Council.MaxRounds != 5 {
		t.Fatalf("max_rounds = %d, want default 5", cfg.Council.MaxRounds)
	}
}
