package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.UploadConcurrency != 3 {
		t.Errorf("UploadConcurrency = %d", cfg.UploadConcurrency)
	}
	if cfg.Timeout != Duration(30*time.Second) {
		t.Errorf("Timeout = %v", time.Duration(cfg.Timeout))
	}
}

func TestLoadFileReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_url: https://api.interviewpro.app\nlog_level: debug\nupload_concurrency: 5\ntimeout: 1m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://api.interviewpro.app" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.UploadConcurrency != 5 {
		t.Errorf("UploadConcurrency = %d", cfg.UploadConcurrency)
	}
	if cfg.Timeout != Duration(time.Minute) {
		t.Errorf("Timeout = %v", time.Duration(cfg.Timeout))
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INTERVIEWPRO_API_URL", "http://from-env")
	t.Setenv("INTERVIEWPRO_UPLOAD_CONCURRENCY", "8")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://from-env" {
		t.Errorf("APIURL = %q, env must win", cfg.APIURL)
	}
	if cfg.UploadConcurrency != 8 {
		t.Errorf("UploadConcurrency = %d", cfg.UploadConcurrency)
	}
}

func TestValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for bad log_level")
	}

	if err := os.WriteFile(path, []byte("upload_concurrency: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for zero upload_concurrency")
	}
}
