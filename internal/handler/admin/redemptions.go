package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/handler"
	"github.com/phantomapp/rewards/internal/service"
)

// RedemptionAdminHandler handles the prize redemption review queue.
type RedemptionAdminHandler struct {
	rewards *service.RewardsService
}

// NewRedemptionAdminHandler creates a new RedemptionAdminHandler.
func NewRedemptionAdminHandler(rewards *service.RewardsService) *RedemptionAdminHandler {
	return &RedemptionAdminHandler{rewards: rewards}
}

// ListPending handles GET /admin/redemptions.
func (h *RedemptionAdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	redemptions, err := h.rewards.PendingRedemptions(r.Context(), limit)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("list pending redemptions", err))
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"redemptions": redemptions})
}

type reviewRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty"`
}

// Review handles POST /admin/redemptions/{id}/review.
func (h *RedemptionAdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	redemptionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid redemption id"))
		return
	}

	var req reviewRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	redemption, err := h.rewards.ReviewRedemption(r.Context(), redemptionID, req.Approve, req.Note)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, redemption)
}
