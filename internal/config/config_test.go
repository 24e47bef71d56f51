package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/tradeterm/data"
  history_db_path: "/tmp/tradeterm/history.db"
  export_dir: "/tmp/tradeterm/export"
server:
  host: "0.0.0.0"
  port: 8200
engine:
  mode: "simulator"
  runtime_dir: "/tmp/tradeterm/runtime"
history:
  yield_millis: 160
logging:
  level: "info"
  format: "json"
`)

	tmpFile, err := os.CreateTemp("", "tradeterm-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("HISTORY_DB_PATH")
	os.Unsetenv("ENGINE_MODE")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Storage --
	if cfg.Storage.DataDir != "/tmp/tradeterm/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/tradeterm/data")
	}
	if cfg.Storage.HistoryDBPath != "/tmp/tradeterm/history.db" {
		t.Errorf("Storage.HistoryDBPath = %q, want %q", cfg.Storage.HistoryDBPath, "/tmp/tradeterm/history.db")
	}

	// -- Server --
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8200 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8200)
	}

	// -- Engine --
	if cfg.Engine.Mode != "simulator" {
		t.Errorf("Engine.Mode = %q, want %q", cfg.Engine.Mode, "simulator")
	}
	if cfg.Engine.RuntimeDir != "/tmp/tradeterm/runtime" {
		t.Errorf("Engine.RuntimeDir = %q, want %q", cfg.Engine.RuntimeDir, "/tmp/tradeterm/runtime")
	}

	// -- Logging --
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/original/data"
engine:
  mode: "native"
`)

	tmpFile, err := os.CreateTemp("", "tradeterm-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Setenv("DATA_DIR", "/env/data")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("DATA_DIR")
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q (env override)", cfg.Logging.Level, "debug")
	}
	// mode should remain from YAML since no env override was set.
	if cfg.Engine.Mode != "native" {
		t.Errorf("Engine.Mode = %q, want %q (from YAML)", cfg.Engine.Mode, "native")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "tradeterm-config-min-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write([]byte("storage:\n  data_dir: /d\n")); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Unsetenv("ENGINE_MODE")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Port != 8200 {
		t.Errorf("Server.Port default = %d, want 8200", cfg.Server.Port)
	}
	if cfg.Engine.Mode != "simulator" {
		t.Errorf("Engine.Mode default = %q, want simulator", cfg.Engine.Mode)
	}
	if cfg.History.YieldMillis != 160 {
		t.Errorf("History.YieldMillis default = %d, want 160", cfg.History.YieldMillis)
	}
}
