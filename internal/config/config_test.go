package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Name != "mcp-probe" {
		t.Errorf("expected default name mcp-probe, got %s", cfg.Server.Name)
	}
	if cfg.Server.Port != 4270 {
		t.Errorf("expected default port 4270, got %d", cfg.Server.Port)
	}
	want := []string{"echo", "read_file", "list_files"}
	if !reflect.DeepEqual(cfg.Tools.Enabled, want) {
		t.Errorf("expected default tools %v, got %v", want, cfg.Tools.Enabled)
	}
	if cfg.Tools.Root != "" {
		t.Errorf("expected unrestricted root by default, got %q", cfg.Tools.Root)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.toml")
	body := `
[server]
name = "custom-probe"
port = 9999

[tools]
enabled = ["echo"]
root = "/srv/data"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Server.Name != "custom-probe" {
		t.Errorf("expected name custom-probe, got %s", cfg.Server.Name)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Tools.Enabled, []string{"echo"}) {
		t.Errorf("expected tools [echo], got %v", cfg.Tools.Enabled)
	}
	if cfg.Tools.Root != "/srv/data" {
		t.Errorf("expected root /srv/data, got %s", cfg.Tools.Root)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}

	// Unset fields keep defaults
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Server.Name != "mcp-probe" {
		t.Errorf("expected defaults, got name %s", cfg.Server.Name)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nname="), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected parse error for invalid TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROBE_SERVER_PORT", "5001")
	t.Setenv("PROBE_SERVER_HOST", "0.0.0.0")
	t.Setenv("PROBE_TOOLS_ROOT", "/var/probe")
	t.Setenv("PROBE_LOG_LEVEL", "warn")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("expected port 5001, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Tools.Root != "/var/probe" {
		t.Errorf("expected root /var/probe, got %s", cfg.Tools.Root)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", cfg.Logging.Level)
	}
}

func TestEnvOverrideInvalidPortIgnored(t *testing.T) {
	t.Setenv("PROBE_SERVER_PORT", "not-a-number")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Server.Port != 4270 {
		t.Errorf("invalid port override must be ignored, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 8088, "example.internal")
	if cfg.Server.Port != 8088 {
		t.Errorf("expected port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "example.internal" {
		t.Errorf("expected host example.internal, got %s", cfg.Server.Host)
	}

	ApplyFlagOverrides(cfg, 0, "")
	if cfg.Server.Port != 8088 || cfg.Server.Host != "example.internal" {
		t.Error("zero-value flags must not override config")
	}
}
