package config

import (
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `ADMIN_JWT_SECRET='value with "double quotes"'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `value with "double quotes"`
	if env["ADMIN_JWT_SECRET"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["ADMIN_JWT_SECRET"])
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	for _, k := range []string{"API_BASE_URL", "API_TIMEOUT_SECONDS", "API_CACHE_TTL_SECONDS", "FRT_MAX_SECONDS",
		"FRT_LIMIT", "EXCLUDED_AGENTS", "EXCLUDED_TEAMS", "LOGS_FOLDER", "CALLS_OUTPUT_DIR"} {
		unsetEnv(t, k)
	}

	cfg := FromEnv("")
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.CacheTTL != 300*time.Second {
		t.Errorf("CacheTTL = %v, want 300s", cfg.API.CacheTTL)
	}
	if cfg.SLAMaxSeconds != 300 || cfg.FRTLimit != 10 {
		t.Errorf("SLA/limit = %d/%d, want 300/10", cfg.SLAMaxSeconds, cfg.FRTLimit)
	}
	if len(cfg.ExcludedTeams) != 1 || cfg.ExcludedTeams[0] != "CHATBOT" {
		t.Errorf("ExcludedTeams = %v, want [CHATBOT]", cfg.ExcludedTeams)
	}
	if len(cfg.ExcludedAgents) != 0 {
		t.Errorf("ExcludedAgents = %v, want empty", cfg.ExcludedAgents)
	}
	if _, err := os.Stat(cfg.LogDir); err != nil {
		t.Errorf("log dir not created: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("API_BASE_URL", "http://metrics.local:3000/")
	t.Setenv("FRT_MAX_SECONDS", "120")
	t.Setenv("FRT_LIMIT", "not-a-number")
	t.Setenv("EXCLUDED_AGENTS", " ops@example.com , qa@example.com,")
	t.Setenv("EXCLUDED_TEAMS", "")

	cfg := FromEnv("")
	if cfg.API.BaseURL != "http://metrics.local:3000" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.API.BaseURL)
	}
	if cfg.SLAMaxSeconds != 120 {
		t.Errorf("SLAMaxSeconds = %d, want 120", cfg.SLAMaxSeconds)
	}
	if cfg.FRTLimit != 10 {
		t.Errorf("FRTLimit = %d, invalid value should fall back to 10", cfg.FRTLimit)
	}
	if len(cfg.ExcludedAgents) != 2 || cfg.ExcludedAgents[1] != "qa@example.com" {
		t.Errorf("ExcludedAgents = %v", cfg.ExcludedAgents)
	}
	if len(cfg.ExcludedTeams) != 0 {
		t.Errorf("ExcludedTeams = %v, explicit empty should disable", cfg.ExcludedTeams)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if old, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, old) })
	}
	os.Unsetenv(key)
}
