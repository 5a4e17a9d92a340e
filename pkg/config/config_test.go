package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SLOPCHEST_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev default env, got %q", cfg.App.Env)
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected sqlite default driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.MaxOpenConns != 1 {
		t.Fatalf("sqlite should default to a single writer connection, got %d", cfg.DB.MaxOpenConns)
	}
	if cfg.JWT.Issuer != "slopchest" {
		t.Fatalf("unexpected issuer %q", cfg.JWT.Issuer)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SLOPCHEST_JWT_SECRET", "test-secret")
	t.Setenv("SLOPCHEST_DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("SLOPCHEST_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing jwt secret error")
	}
}
