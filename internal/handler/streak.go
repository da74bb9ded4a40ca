package handler

import (
	"net/http"
	"time"

	"github.com/phantomapp/rewards/internal/service"
)

// StreakHandler handles the daily coin claim endpoint. Rate limiting and
// idempotency live in the ClaimGuards middleware on the route.
type StreakHandler struct {
	daily *service.DailyService
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(daily *service.DailyService) *StreakHandler {
	return &StreakHandler{daily: daily}
}

// Claim handles POST /streak/claim.
func (h *StreakHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	claim, err := h.daily.Claim(r.Context(), userID, time.Now())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, claim)
}
