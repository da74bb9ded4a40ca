package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/service"
)

// PrizesHandler handles the user-facing prize and redemption endpoints.
type PrizesHandler struct {
	rewards *service.RewardsService
}

// NewPrizesHandler creates a new PrizesHandler.
func NewPrizesHandler(rewards *service.RewardsService) *PrizesHandler {
	return &PrizesHandler{rewards: rewards}
}

// List handles GET /prizes.
func (h *PrizesHandler) List(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.rewards.Prizes(r.Context())
	if err != nil {
		RespondError(w, domain.ErrInternal("list prizes", err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"prizes": prizes})
}

// Redeem handles POST /prizes/{id}/redeem.
func (h *PrizesHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	prizeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid prize id"))
		return
	}

	redemption, err := h.rewards.Redeem(r.Context(), userID, prizeID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, redemption)
}

// MyRedemptions handles GET /redemptions/me.
func (h *PrizesHandler) MyRedemptions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	redemptions, err := h.rewards.Redemptions(r.Context(), userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("list redemptions", err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"redemptions": redemptions})
}
