// Package admin holds the back-office handlers: mission and prize
// management plus redemption review.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/handler"
	"github.com/phantomapp/rewards/internal/service"
)

// MissionAdminHandler handles mission management endpoints.
type MissionAdminHandler struct {
	admin *service.AdminService
}

// NewMissionAdminHandler creates a new MissionAdminHandler.
func NewMissionAdminHandler(admin *service.AdminService) *MissionAdminHandler {
	return &MissionAdminHandler{admin: admin}
}

// Create handles POST /admin/missions.
func (h *MissionAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMissionInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	m, err := h.admin.CreateMission(r.Context(), in)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, m)
}

// Deactivate handles POST /admin/missions/{id}/deactivate.
func (h *MissionAdminHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	missionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid mission id"))
		return
	}

	if err := h.admin.DeactivateMission(r.Context(), missionID); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}
