package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("service name propagates into logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name 'svc', got %q", cfg.Logging.ServiceName)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigApplyDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.Name = "searchkit"
	cfg.Readiness.Index = "events"
	cfg.ApplyDefaults()

	if cfg.Search.Address == "" {
		t.Error("expected search address default")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" {
		t.Errorf("expected telemetry endpoint default, got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsBadIndexName(t *testing.T) {
	cfg := Config{}
	cfg.Name = "searchkit"
	cfg.Readiness.Index = "_events"
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for illegal index name")
	}
	if !strings.Contains(err.Error(), "config.readiness") {
		t.Errorf("expected readiness section in error, got %q", err.Error())
	}
}

func TestConfigValidate_RejectsBadTelemetry(t *testing.T) {
	cfg := Config{}
	cfg.Name = "searchkit"
	cfg.Readiness.Index = "events"
	cfg.ApplyDefaults()
	cfg.Telemetry.SampleRate = 2.0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for sample rate above 1")
	}
	if !strings.Contains(err.Error(), "config.telemetry") {
		t.Errorf("expected telemetry section in error, got %q", err.Error())
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	yaml := `
name: searchkit
environment: production
search:
  address: http://search.internal:9200
readiness:
  index: events
server:
  port: 9090
`
	if err := os.WriteFile(configFile, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	var cfg Config
	if err := Load("searchkit", &cfg, WithConfigFile(configFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "searchkit" {
		t.Errorf("expected name 'searchkit', got %q", cfg.Name)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment 'production', got %q", cfg.Environment)
	}
	if cfg.Search.Address != "http://search.internal:9200" {
		t.Errorf("unexpected search address %q", cfg.Search.Address)
	}
	if cfg.Readiness.Index != "events" {
		t.Errorf("expected index 'events', got %q", cfg.Readiness.Index)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	yaml := `
name: searchkit
search:
  address: http://localhost:9200
`
	if err := os.WriteFile(configFile, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("SEARCH_ADDRESS", "http://override:9200")

	var cfg Config
	if err := Load("searchkit", &cfg, WithConfigFile(configFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.Address != "http://override:9200" {
		t.Errorf("expected env override, got %q", cfg.Search.Address)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("READINESS_INDEX=fromenv\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	// godotenv loads into the process environment
	defer os.Unsetenv("READINESS_INDEX")

	var cfg Config
	if err := Load("searchkit", &cfg, WithEnvFile(envFile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Readiness.Index != "fromenv" {
		t.Errorf("expected index from .env file, got %q", cfg.Readiness.Index)
	}
}

func TestLoad_MissingFilesIsFine(t *testing.T) {
	var cfg Config
	if err := Load("does-not-exist", &cfg); err != nil {
		t.Errorf("unexpected error with no files present: %v", err)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("SEARCH_WAIT_FOR_STATUS")

	want := map[string]bool{
		"search_wait_for_status": false,
		"search.wait.for.status": false,
		"search.wait_for_status": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("expected variant %q in %v", k, variants)
		}
	}
}

func TestEnvKeyVariants_SinglePart(t *testing.T) {
	variants := envKeyVariants("DEBUG")
	if len(variants) != 1 || variants[0] != "debug" {
		t.Errorf("expected [debug], got %v", variants)
	}
}
