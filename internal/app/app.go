package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/footylabs/fantasy-contest/internal/config"
	"github.com/footylabs/fantasy-contest/internal/domain/contest"
	"github.com/footylabs/fantasy-contest/internal/infrastructure/identity/introspect"
	"github.com/footylabs/fantasy-contest/internal/infrastructure/provider/fplapi"
	"github.com/footylabs/fantasy-contest/internal/infrastructure/repository/memory"
	"github.com/footylabs/fantasy-contest/internal/infrastructure/repository/postgres"
	"github.com/footylabs/fantasy-contest/internal/interfaces/httpapi"
	"github.com/footylabs/fantasy-contest/internal/platform/logging"
	"github.com/footylabs/fantasy-contest/internal/platform/resilience"
	"github.com/footylabs/fantasy-contest/internal/usecase"
)

// NewHTTPServer assembles the service and returns the server plus a cleanup
// that releases infrastructure resources after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	states, closeStates, err := newStateRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	provider := fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		Timeout:    cfg.FPLTimeout,
		MaxRetries: cfg.FPLMaxRetries,
		Logger:     logger,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			CoolDown:         cfg.FPLCircuitCoolDown,
			HalfOpenProbes:   cfg.FPLCircuitProbes,
		},
	})

	rules := buildRules(cfg)

	catalogSvc := usecase.NewCatalogService(provider, cfg.CatalogSnapshotTTL, cfg.CatalogStatsWorkers, logger)
	teamSvc := usecase.NewTeamService(states, catalogSvc, rules, logger)
	transferSvc := usecase.NewTransferService(states, catalogSvc, rules, logger)
	pointsSvc := usecase.NewPointsService(states, catalogSvc, rules, logger)
	boardSvc := usecase.NewLeaderboardService(states, pointsSvc, usecase.LeaderboardConfig{
		EntryFee:    cfg.PrizeEntryFee,
		PayoutBps:   cfg.PrizePayoutBps,
		WorkerCount: cfg.RecomputeWorkers,
	}, logger)

	verifier := introspect.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(catalogSvc, teamSvc, transferSvc, pointsSvc, boardSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = closeStates(ctx)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeStates, nil
}

func newStateRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (contest.Repository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := openStateDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("state repository ready", "backend", config.StoragePostgres, "database", dbNameFromURL(cfg.DBURL))
		return postgres.NewStateRepository(db), func(context.Context) error { return db.Close() }, nil
	case config.StorageMemory:
		logger.Info("state repository ready", "backend", config.StorageMemory)
		return memory.NewStateRepository(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func buildRules(cfg config.Config) contest.Rules {
	rules := contest.DefaultRules()
	rules.RosterSize = cfg.ContestRosterSize
	rules.BudgetCeiling = cfg.ContestBudgetCeiling
	rules.ClubCap = cfg.ContestClubCap
	rules.FreeTransfersPerGameweek = cfg.ContestFreeTransfers
	rules.PenaltyPoints = cfg.ContestPenaltyPoints
	rules.StrictPositions = cfg.ContestStrictPositions
	rules.FormationCheck = cfg.ContestFormationCheck
	return rules
}
