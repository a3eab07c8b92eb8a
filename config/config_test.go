package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
scheduling:
  max_work_hours: 14
oracle:
  mode: rule
storage:
  dir: /tmp/stripboard-test
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scheduling.MaxWorkHours != 14 {
		t.Fatalf("explicit value lost: %+v", cfg.Scheduling)
	}
	if cfg.Scheduling.MinTurnaroundHours != 10 {
		t.Fatalf("defaults not applied: %+v", cfg.Scheduling)
	}
	if cfg.Storage.Dir != "/tmp/stripboard-test" {
		t.Fatalf("storage dir lost: %+v", cfg.Storage)
	}
	if cfg.Metrics.PrometheusPort != ":9090" {
		t.Fatalf("metrics defaults not applied: %+v", cfg.Metrics)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"oracle": {"mode": "http", "http": {"url": "http://localhost:8080/plan"}}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Oracle.Mode != "http" || cfg.Oracle.HTTP.URL != "http://localhost:8080/plan" {
		t.Fatalf("oracle config lost: %+v", cfg.Oracle)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SB_SCHEDULING__MAX_WORK_HOURS", "16")
	path := writeConfig(t, "config.yaml", "scheduling:\n  max_work_hours: 12\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scheduling.MaxWorkHours != 16 {
		t.Fatalf("environment override ignored: %+v", cfg.Scheduling)
	}
}

func TestLoadRejectsHTTPModeWithoutURL(t *testing.T) {
	path := writeConfig(t, "config.yaml", "oracle:\n  mode: http\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadUnknownMode(t *testing.T) {
	path := writeConfig(t, "config.yaml", "oracle:\n  mode: psychic\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected format error")
	}
}
