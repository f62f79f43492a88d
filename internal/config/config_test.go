package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("IMPORT_QUEUE_SIZE", "")
	t.Setenv("IMPORT_WORKERS", "")
	t.Setenv("DEFAULT_USER_ID", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, DefaultGeminiModel)
	}
	if cfg.QueueSize != DefaultQueueSize || cfg.Workers != DefaultWorkers {
		t.Errorf("queue sizing = (%d, %d), want defaults", cfg.QueueSize, cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GCS_BUCKET", "statements")
	t.Setenv("IMPORT_QUEUE_SIZE", "7")
	t.Setenv("IMPORT_WORKERS", "2")

	cfg := Load()
	if cfg.Port != "9090" || cfg.Bucket != "statements" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.QueueSize != 7 || cfg.Workers != 2 {
		t.Errorf("queue sizing = (%d, %d), want (7, 2)", cfg.QueueSize, cfg.Workers)
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("IMPORT_WORKERS", "zero")
	if cfg := Load(); cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want fallback %d", cfg.Workers, DefaultWorkers)
	}
	t.Setenv("IMPORT_WORKERS", "-3")
	if cfg := Load(); cfg.Workers != DefaultWorkers {
		t.Errorf("negative Workers = %d, want fallback %d", cfg.Workers, DefaultWorkers)
	}
}
