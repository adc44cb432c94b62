package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/footylabs/fantasy-contest/internal/platform/logging"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	CORSAllowedOrigins []string
	InternalJobToken   string

	StorageBackend string
	DBURL          string

	FPLBaseURL             string
	FPLTimeout             time.Duration
	FPLMaxRetries          int
	FPLCircuitEnabled      bool
	FPLCircuitFailureCount int
	FPLCircuitCoolDown     time.Duration
	FPLCircuitProbes       int

	CatalogSnapshotTTL  time.Duration
	CatalogStatsWorkers int

	IdentityBaseURL        string
	IdentityIntrospectPath string
	IdentityTimeout        time.Duration

	ContestRosterSize      int
	ContestBudgetCeiling   int64
	ContestClubCap         int
	ContestFreeTransfers   int
	ContestPenaltyPoints   int
	ContestStrictPositions bool
	ContestFormationCheck  bool

	PrizeEntryFee    int64
	PrizePayoutBps   []int
	RecomputeWorkers int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv := strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDev)))
	if appEnv != EnvDev && appEnv != EnvProd {
		return Config{}, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDev, EnvProd, appEnv)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "fantasy-contest"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		LogLevel:       logging.ParseLevel(getEnv("LOG_LEVEL", "info")),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		FPLBaseURL:             strings.TrimSpace(getEnv("FPL_BASE_URL", "")),
		IdentityBaseURL:        strings.TrimSpace(getEnv("IDENTITY_BASE_URL", "")),
		IdentityIntrospectPath: getEnv("IDENTITY_INTROSPECT_PATH", "/oauth/introspect"),

		UptraceDSN: strings.TrimSpace(getEnv("UPTRACE_DSN", "")),

		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", "fantasy-contest"),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),

		PprofAddr: strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}

	var err error
	if cfg.ReadTimeout, err = getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", StorageMemory)))
	if cfg.StorageBackend != StorageMemory && cfg.StorageBackend != StoragePostgres {
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageMemory, StoragePostgres, cfg.StorageBackend)
	}
	cfg.DBURL = strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if cfg.StorageBackend == StoragePostgres && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	if cfg.FPLTimeout, err = getEnvAsDuration("FPL_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FPLMaxRetries, err = getEnvAsInt("FPL_MAX_RETRIES", 3); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitEnabled, err = getEnvAsBool("FPL_CIRCUIT_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitFailureCount, err = getEnvAsInt("FPL_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitCoolDown, err = getEnvAsDuration("FPL_CIRCUIT_COOLDOWN", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FPLCircuitProbes, err = getEnvAsInt("FPL_CIRCUIT_HALF_OPEN_PROBES", 2); err != nil {
		return Config{}, err
	}

	if cfg.CatalogSnapshotTTL, err = getEnvAsDuration("CATALOG_SNAPSHOT_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CatalogStatsWorkers, err = getEnvAsInt("CATALOG_STATS_WORKERS", 8); err != nil {
		return Config{}, err
	}

	if cfg.IdentityTimeout, err = getEnvAsDuration("IDENTITY_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.ContestRosterSize, err = getEnvAsInt("CONTEST_ROSTER_SIZE", 11); err != nil {
		return Config{}, err
	}
	if cfg.ContestBudgetCeiling, err = getEnvAsInt64("CONTEST_BUDGET_CEILING", 1000); err != nil {
		return Config{}, err
	}
	if cfg.ContestClubCap, err = getEnvAsInt("CONTEST_CLUB_CAP", 2); err != nil {
		return Config{}, err
	}
	if cfg.ContestFreeTransfers, err = getEnvAsInt("CONTEST_FREE_TRANSFERS", 1); err != nil {
		return Config{}, err
	}
	if cfg.ContestPenaltyPoints, err = getEnvAsInt("CONTEST_PENALTY_POINTS", 4); err != nil {
		return Config{}, err
	}
	if cfg.ContestStrictPositions, err = getEnvAsBool("CONTEST_STRICT_POSITIONS", true); err != nil {
		return Config{}, err
	}
	if cfg.ContestFormationCheck, err = getEnvAsBool("CONTEST_FORMATION_CHECK", false); err != nil {
		return Config{}, err
	}

	if cfg.PrizeEntryFee, err = getEnvAsInt64("PRIZE_ENTRY_FEE", 100); err != nil {
		return Config{}, err
	}
	if cfg.PrizePayoutBps, err = parsePayoutBps(getEnv("PRIZE_PAYOUT_BPS", "5000,3000,2000")); err != nil {
		return Config{}, err
	}
	if cfg.RecomputeWorkers, err = getEnvAsInt("RECOMPUTE_WORKERS", 8); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	raw := getEnv(key, strconv.FormatInt(fallback, 10))
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(fallback))
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, fallback.String())
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePayoutBps(raw string) ([]int, error) {
	parts := splitAndTrim(raw)
	out := make([]int, 0, len(parts))
	total := 0
	for _, part := range parts {
		bps, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse PRIZE_PAYOUT_BPS entry %q: %w", part, err)
		}
		if bps <= 0 {
			return nil, fmt.Errorf("PRIZE_PAYOUT_BPS entries must be > 0, got %d", bps)
		}
		total += bps
		out = append(out, bps)
	}
	if total > 10000 {
		return nil, fmt.Errorf("PRIZE_PAYOUT_BPS sums to %d, must not exceed 10000", total)
	}
	return out, nil
}
