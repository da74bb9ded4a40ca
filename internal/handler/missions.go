package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/service"
)

// MissionsHandler handles the user-facing mission endpoints.
type MissionsHandler struct {
	rewards *service.RewardsService
}

// NewMissionsHandler creates a new MissionsHandler.
func NewMissionsHandler(rewards *service.RewardsService) *MissionsHandler {
	return &MissionsHandler{rewards: rewards}
}

// List handles GET /missions: active missions with the caller's progress.
func (h *MissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	missions, err := h.rewards.ActiveMissions(r.Context(), userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("list missions", err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"missions": missions})
}

// Claim handles POST /missions/{id}/claim.
func (h *MissionsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	missionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid mission id"))
		return
	}

	reward, err := h.rewards.ClaimMission(r.Context(), userID, missionID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, reward)
}
