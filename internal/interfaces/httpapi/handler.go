package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/footylabs/fantasy-contest/internal/platform/logging"
	"github.com/footylabs/fantasy-contest/internal/usecase"
)

type Handler struct {
	catalogService     *usecase.CatalogService
	teamService        *usecase.TeamService
	transferService    *usecase.TransferService
	pointsService      *usecase.PointsService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	teamService *usecase.TeamService,
	transferService *usecase.TransferService,
	pointsService *usecase.PointsService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:     catalogService,
		teamService:        teamService,
		transferService:    transferService,
		pointsService:      pointsService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
