package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
backend:
  url: https://drafting.example.com
  api_prefix: /v1
  timeout_seconds: 30
defaults:
  case_type: writ
  jurisdiction: high-court
snippets_dir: /etc/plead/snippets
logging:
  level: debug
  file: /var/log/plead.log
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Backend.BaseURL != "https://drafting.example.com" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.APIPrefix != "/v1" {
		t.Errorf("APIPrefix = %q", cfg.Backend.APIPrefix)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Defaults.CaseType != "writ" {
		t.Errorf("CaseType = %q", cfg.Defaults.CaseType)
	}
	if cfg.SnippetsDir != "/etc/plead/snippets" {
		t.Errorf("SnippetsDir = %q", cfg.SnippetsDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	def := Default()
	if cfg.Backend.BaseURL != def.Backend.BaseURL {
		t.Errorf("BaseURL = %q, want default %q", cfg.Backend.BaseURL, def.Backend.BaseURL)
	}
	if cfg.Defaults.CaseType != "civil" {
		t.Errorf("CaseType = %q, want civil", cfg.Defaults.CaseType)
	}
	if cfg.Defaults.Jurisdiction != "district" {
		t.Errorf("Jurisdiction = %q, want district", cfg.Defaults.Jurisdiction)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("backend: [not a map")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pleadrc")
	if err := os.WriteFile(path, []byte("backend:\n  url: http://localhost:9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}

	if _, err := Load(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("PLEADRC", "/tmp/custom-pleadrc")
	if got := DefaultConfigPath(); got != "/tmp/custom-pleadrc" {
		t.Errorf("DefaultConfigPath = %q", got)
	}
}
