package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("TAP_DEDUP_WINDOW", "")

	cfg := Load()
	if cfg.APIBaseURL != "https://attendance-monitoring-system-65w1.onrender.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.SessionBackend != "file" {
		t.Errorf("SessionBackend = %q, want file", cfg.SessionBackend)
	}
	if cfg.TapDedupWindow != 5*time.Second {
		t.Errorf("TapDedupWindow = %v", cfg.TapDedupWindow)
	}
	if cfg.SessionPath == "" {
		t.Error("SessionPath is empty")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD_DUR", "soon")
	t.Setenv("X_BOOL", "0")
	t.Setenv("X_BAD_BOOL", "maybe")
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "many")

	if got := durationEnv("X_DUR", time.Second); got != 90*time.Second {
		t.Errorf("durationEnv() = %v", got)
	}
	if got := durationEnv("X_BAD_DUR", time.Second); got != time.Second {
		t.Errorf("durationEnv() bad = %v", got)
	}
	if got := boolEnv("X_BOOL", true); got {
		t.Error("boolEnv() = true, want false")
	}
	if got := boolEnv("X_BAD_BOOL", true); !got {
		t.Error("boolEnv() bad = false, want fallback true")
	}
	if got := intEnv("X_INT", 1); got != 42 {
		t.Errorf("intEnv() = %d", got)
	}
	if got := intEnv("X_BAD_INT", 7); got != 7 {
		t.Errorf("intEnv() bad = %d", got)
	}
	if got := getEnv("X_MISSING", "dflt"); got != "dflt" {
		t.Errorf("getEnv() = %q", got)
	}
}
