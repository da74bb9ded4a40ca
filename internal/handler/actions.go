package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/service"
)

// ActionsHandler handles the XP-bearing content endpoints.
type ActionsHandler struct {
	actions *service.ActionService
}

// NewActionsHandler creates a new ActionsHandler.
func NewActionsHandler(actions *service.ActionService) *ActionsHandler {
	return &ActionsHandler{actions: actions}
}

type placeRequest struct {
	PlaceID uuid.UUID `json:"place_id"`
}

// CreateReview handles POST /reviews.
func (h *ActionsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req placeRequest
	if err := DecodeJSON(r, &req); err != nil || req.PlaceID == uuid.Nil {
		RespondError(w, domain.ErrValidation("place_id is required"))
		return
	}

	result, err := h.actions.CreateReview(r.Context(), userID, req.PlaceID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

type checkInRequest struct {
	PlaceID   uuid.UUID `json:"place_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// CreateCheckIn handles POST /check-ins.
func (h *ActionsHandler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req checkInRequest
	if err := DecodeJSON(r, &req); err != nil || req.PlaceID == uuid.Nil {
		RespondError(w, domain.ErrValidation("place_id is required"))
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		RespondError(w, domain.ErrValidation("coordinates out of range"))
		return
	}

	result, err := h.actions.CreateCheckIn(r.Context(), userID, req.PlaceID, req.Latitude, req.Longitude)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

type targetRequest struct {
	TargetUserID uuid.UUID `json:"target_user_id"`
}

// CreateComment handles POST /comments.
func (h *ActionsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	h.createTargeted(w, r, h.actions.CreateComment)
}

// CreateReaction handles POST /reactions.
func (h *ActionsHandler) CreateReaction(w http.ResponseWriter, r *http.Request) {
	h.createTargeted(w, r, h.actions.CreateReaction)
}

func (h *ActionsHandler) createTargeted(w http.ResponseWriter, r *http.Request, create func(ctx context.Context, userID, targetUserID uuid.UUID) (*service.ActionResult, error)) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req targetRequest
	if err := DecodeJSON(r, &req); err != nil || req.TargetUserID == uuid.Nil {
		RespondError(w, domain.ErrValidation("target_user_id is required"))
		return
	}

	result, err := create(r.Context(), userID, req.TargetUserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// CreateHomemade handles POST /homemade-posts.
func (h *ActionsHandler) CreateHomemade(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.actions.CreateHomemade(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE /{content}/{id} for every content type.
func (h *ActionsHandler) Delete(ref domain.RefType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r)
		if err != nil {
			RespondError(w, err)
			return
		}

		contentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid id"))
			return
		}

		if err := h.actions.Delete(r.Context(), userID, ref, contentID); err != nil {
			RespondError(w, err)
			return
		}
		RespondJSON(w, http.StatusNoContent, nil)
	}
}
