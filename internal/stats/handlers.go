package stats

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/common"
)

// Handler exposes the dashboard endpoint.
type Handler struct {
	Svc *Service
}

// Dashboard returns the dashboard statistics.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_NOT_CONFIGURED", "stats service not configured", nil)
		return
	}
	d, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("dashboard stats")
		common.Failure(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	common.Success(w, http.StatusOK, "Stats fetched successfully", d)
}
