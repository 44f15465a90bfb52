package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-32bytes-long-enough!")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.JWTSecret != "test-secret-32bytes-long-enough!" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.AdminPassword != "s3cret" {
		t.Errorf("AdminPassword = %q, want %q", cfg.AdminPassword, "s3cret")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.StaticPath != "./web" {
		t.Errorf("StaticPath = %q, want %q", cfg.StaticPath, "./web")
	}
	if cfg.DBPath != "./data/ferramentas.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/ferramentas.db")
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want %q", cfg.AdminUsername, "admin")
	}
	if cfg.TokenDuration != 12*time.Hour {
		t.Errorf("TokenDuration = %v, want %v", cfg.TokenDuration, 12*time.Hour)
	}
	if cfg.ReplicationURL != "" {
		t.Errorf("ReplicationURL = %q, want empty", cfg.ReplicationURL)
	}
	if cfg.ReplicationMaxRetries != 3 {
		t.Errorf("ReplicationMaxRetries = %d, want 3", cfg.ReplicationMaxRetries)
	}
	if cfg.ReplicationBaseDelay != time.Second {
		t.Errorf("ReplicationBaseDelay = %v, want 1s", cfg.ReplicationBaseDelay)
	}
	if cfg.ReplicationTimeout != 0 || cfg.ReplicationRate != 0 {
		t.Errorf("Expected no replication timeout or rate limit, got %v and %v", cfg.ReplicationTimeout, cfg.ReplicationRate)
	}
	if cfg.SeedFile != "" {
		t.Errorf("SeedFile = %q, want empty", cfg.SeedFile)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ADDR", ":9090")
	t.Setenv("REPLICATION_URL", "https://script.example.com/exec")
	t.Setenv("REPLICATION_MAX_RETRIES", "5")
	t.Setenv("REPLICATION_BASE_DELAY", "250ms")
	t.Setenv("REPLICATION_TIMEOUT", "10s")
	t.Setenv("REPLICATION_RATE", "0.5")
	t.Setenv("TOKEN_DURATION", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":9090")
	}
	if cfg.ReplicationURL != "https://script.example.com/exec" {
		t.Errorf("ReplicationURL = %q", cfg.ReplicationURL)
	}
	if cfg.ReplicationMaxRetries != 5 {
		t.Errorf("ReplicationMaxRetries = %d, want 5", cfg.ReplicationMaxRetries)
	}
	if cfg.ReplicationBaseDelay != 250*time.Millisecond {
		t.Errorf("ReplicationBaseDelay = %v, want 250ms", cfg.ReplicationBaseDelay)
	}
	if cfg.ReplicationTimeout != 10*time.Second {
		t.Errorf("ReplicationTimeout = %v, want 10s", cfg.ReplicationTimeout)
	}
	if cfg.ReplicationRate != 0.5 {
		t.Errorf("ReplicationRate = %v, want 0.5", cfg.ReplicationRate)
	}
	if cfg.TokenDuration != time.Hour {
		t.Errorf("TokenDuration = %v, want 1h", cfg.TokenDuration)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("REPLICATION_MAX_RETRIES", "many")
	t.Setenv("REPLICATION_BASE_DELAY", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ReplicationMaxRetries != 3 {
		t.Errorf("ReplicationMaxRetries = %d, want 3", cfg.ReplicationMaxRetries)
	}
	if cfg.ReplicationBaseDelay != time.Second {
		t.Errorf("ReplicationBaseDelay = %v, want 1s", cfg.ReplicationBaseDelay)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars")
	}
	for _, name := range []string{"JWT_SECRET", "ADMIN_PASSWORD"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should mention %s", err, name)
		}
	}
}

func TestLoadStorage(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/x.db")
	if got := LoadStorage().DBPath; got != "/tmp/x.db" {
		t.Errorf("DBPath = %q, want /tmp/x.db", got)
	}
}
