package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")
	cfg := fromEnv()

	if cfg.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Port)
	}
	if cfg.DBName != "hospital" {
		t.Errorf("expected default DB_NAME hospital, got %s", cfg.DBName)
	}
	if cfg.MaxPhotoBytes != 5*1024*1024 {
		t.Errorf("expected 5MB photo limit, got %d", cfg.MaxPhotoBytes)
	}
	if cfg.HTTPClientTimeout != 15*time.Second {
		t.Errorf("expected 15s client timeout, got %s", cfg.HTTPClientTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.AuthEnabled() {
		t.Error("expected auth disabled without JWT_SECRET")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "clinica")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")

	cfg := fromEnv()
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBName != "clinica" {
		t.Errorf("expected DB_NAME clinica, got %s", cfg.DBName)
	}
	if !cfg.AuthEnabled() {
		t.Error("expected auth enabled with JWT_SECRET")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.DBConnMaxLifetime != 30*time.Minute {
		t.Errorf("expected 30m lifetime, got %s", cfg.DBConnMaxLifetime)
	}
}

func TestValidate(t *testing.T) {
	base := Config{DBName: "hospital", DBUser: "root", Port: "3001", DBPort: "3306", MaxPhotoBytes: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]func(c *Config){
		"missing db name": func(c *Config) { c.DBName = "" },
		"missing db user": func(c *Config) { c.DBUser = "" },
		"bad port":        func(c *Config) { c.Port = "http" },
		"port range":      func(c *Config) { c.DBPort = "70000" },
		"photo limit":     func(c *Config) { c.MaxPhotoBytes = 0 },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
