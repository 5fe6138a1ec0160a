package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("ROLE_CACHE_TTL", "")
	t.Setenv("CHANGE_FEED", "")

	cfg := Load()
	if cfg.DBDSN != "gigboard.db" {
		t.Fatalf("expected sqlite default dsn, got %q", cfg.DBDSN)
	}
	if cfg.RoleCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.RoleCacheTTL)
	}
	if cfg.ChangeFeed != "local" {
		t.Fatalf("unexpected feed %q", cfg.ChangeFeed)
	}
	if cfg.JWTExpiresMin != 10080 {
		t.Fatalf("unexpected expiry %d", cfg.JWTExpiresMin)
	}
}

func TestLoadPanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing JWT_SECRET")
		}
	}()
	Load()
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing DB_DSN")
		}
	}()
	Load()
}

func TestProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")

	t.Setenv("APP_ENV", "")
	if Load().Production() {
		t.Fatal("default environment should not be production")
	}
	t.Setenv("APP_ENV", "production")
	if !Load().Production() {
		t.Fatal("APP_ENV=production should be production")
	}
}
