package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/handler"
	"github.com/phantomapp/rewards/internal/service"
)

// PrizeAdminHandler handles prize catalog management endpoints.
type PrizeAdminHandler struct {
	admin *service.AdminService
}

// NewPrizeAdminHandler creates a new PrizeAdminHandler.
func NewPrizeAdminHandler(admin *service.AdminService) *PrizeAdminHandler {
	return &PrizeAdminHandler{admin: admin}
}

// Create handles POST /admin/prizes.
func (h *PrizeAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePrizeInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	p, err := h.admin.CreatePrize(r.Context(), in)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, p)
}

type stockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock handles PATCH /admin/prizes/{id}/stock.
func (h *PrizeAdminHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	prizeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid prize id"))
		return
	}

	var req stockRequest
	if err := handler.DecodeJSON(r, &req); err != nil || req.Delta == 0 {
		handler.RespondError(w, domain.ErrValidation("delta must be a non-zero integer"))
		return
	}

	p, err := h.admin.AdjustPrizeStock(r.Context(), prizeID, req.Delta)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, p)
}
