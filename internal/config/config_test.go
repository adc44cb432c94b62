package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StorageBackend != StorageMemory {
		t.Fatalf("unexpected StorageBackend: %q", cfg.StorageBackend)
	}
	if cfg.ContestRosterSize != 11 || cfg.ContestBudgetCeiling != 1000 || cfg.ContestClubCap != 2 {
		t.Fatalf("unexpected contest defaults: %+v", cfg)
	}
	if cfg.CatalogSnapshotTTL != 5*time.Minute {
		t.Fatalf("unexpected CatalogSnapshotTTL: %s", cfg.CatalogSnapshotTTL)
	}
	if len(cfg.PrizePayoutBps) != 3 || cfg.PrizePayoutBps[0] != 5000 {
		t.Fatalf("unexpected PrizePayoutBps: %v", cfg.PrizePayoutBps)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_BACKEND=postgres without DATABASE_URL")
	}
}

func TestLoad_StorageBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_BACKEND")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FPL_TIMEOUT", "30s")
	t.Setenv("CATALOG_SNAPSHOT_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FPLTimeout != 30*time.Second {
		t.Fatalf("unexpected FPLTimeout: %s", cfg.FPLTimeout)
	}
	if cfg.CatalogSnapshotTTL != 2*time.Minute {
		t.Fatalf("unexpected CatalogSnapshotTTL: %s", cfg.CatalogSnapshotTTL)
	}
}

func TestLoad_RejectsNonPositiveDuration(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("HTTP_READ_TIMEOUT", "-1s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive HTTP_READ_TIMEOUT")
	}
}

func TestLoad_PayoutBpsValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("rejects malformed entry", func(t *testing.T) {
		t.Setenv("PRIZE_PAYOUT_BPS", "5000,abc")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for malformed PRIZE_PAYOUT_BPS")
		}
	})

	t.Run("rejects sum over 10000", func(t *testing.T) {
		t.Setenv("PRIZE_PAYOUT_BPS", "6000,5000")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PRIZE_PAYOUT_BPS over 10000")
		}
	})

	t.Run("parses custom split", func(t *testing.T) {
		t.Setenv("PRIZE_PAYOUT_BPS", "7000,3000")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.PrizePayoutBps) != 2 || cfg.PrizePayoutBps[0] != 7000 || cfg.PrizePayoutBps[1] != 3000 {
			t.Fatalf("unexpected PrizePayoutBps: %v", cfg.PrizePayoutBps)
		}
	})
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origin: %q", cfg.CORSAllowedOrigins[1])
	}
}
