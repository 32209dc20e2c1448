package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://www.speedrun.com/api/v1",
			UserAgent: "srcom-cli",
			TimeoutS:  30,
		},
		Mock: MockConfig{
			Enabled: false,
			Dir:     ".srcom-fixtures",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing user agent",
			mutate:  func(cfg *Config) { cfg.API.UserAgent = "" },
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(cfg *Config) { cfg.API.TimeoutS = 0 },
			wantErr: true,
		},
		{
			name: "mock enabled without dir",
			mutate: func(cfg *Config) {
				cfg.Mock.Enabled = true
				cfg.Mock.Dir = ""
			},
			wantErr: true,
		},
		{
			name:   "mock enabled with dir",
			mutate: func(cfg *Config) { cfg.Mock.Enabled = true },
		},
		{
			name:    "invalid logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	// No config file anywhere: defaults alone must produce a usable
	// read-only configuration.
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.UserAgent != "srcom-cli" {
		t.Errorf("default user agent = %q, want srcom-cli", cfg.API.UserAgent)
	}
	if cfg.API.TimeoutS != 30 {
		t.Errorf("default timeout = %d, want 30", cfg.API.TimeoutS)
	}
	if cfg.Mock.Enabled {
		t.Error("mock mode must default to disabled")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`api:
  api_key: "test-key"
  user_agent: "tester/1.0"
mock:
  enabled: true
  dir: "/tmp/fixtures"
logging:
  level: debug
  format: json
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.API.APIKey)
	}
	if cfg.API.UserAgent != "tester/1.0" {
		t.Errorf("user agent = %q, want tester/1.0", cfg.API.UserAgent)
	}
	if !cfg.Mock.Enabled || cfg.Mock.Dir != "/tmp/fixtures" {
		t.Errorf("mock config = %+v, want enabled with /tmp/fixtures", cfg.Mock)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging config = %+v", cfg.Logging)
	}
}
