package handler

import (
	"net/http"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/service"
)

// ProgressionHandler serves the read endpoints for a user's own progression.
type ProgressionHandler struct {
	rewards *service.RewardsService
}

// NewProgressionHandler creates a new ProgressionHandler.
func NewProgressionHandler(rewards *service.RewardsService) *ProgressionHandler {
	return &ProgressionHandler{rewards: rewards}
}

// Enroll handles POST /progression/enroll. The account system calls it once
// after signup; repeat calls return the existing row.
func (h *ProgressionHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	user, err := h.rewards.Enroll(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, user)
}

// GetMe handles GET /progression/me.
func (h *ProgressionHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	view, err := h.rewards.Progression(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}

// rewardListResponse wraps a ledger page with its cursor.
type rewardListResponse struct {
	Rewards    []domain.Reward `json:"rewards"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

// GetRewards handles GET /rewards/me with cursor-based pagination.
func (h *ProgressionHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	cursor, limit := pageParams(r)
	rewards, err := h.rewards.RewardHistory(r.Context(), userID, cursor, limit+1)
	if err != nil {
		RespondError(w, domain.ErrInternal("list rewards", err))
		return
	}

	resp := rewardListResponse{Rewards: rewards}
	if len(rewards) > limit {
		// the extra row is the anchor of the next page
		next := rewards[limit].ID.String()
		resp.Rewards = rewards[:limit]
		resp.NextCursor = &next
	}
	RespondJSON(w, http.StatusOK, resp)
}

// GetAchievements handles GET /achievements/me.
func (h *ProgressionHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	badges, err := h.rewards.Achievements(r.Context(), userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("list achievements", err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"achievements": badges})
}

// GetCoins handles GET /coins/me.
func (h *ProgressionHandler) GetCoins(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	_, limit := pageParams(r)
	coins, err := h.rewards.CoinHistory(r.Context(), userID, limit)
	if err != nil {
		RespondError(w, domain.ErrInternal("list coin rewards", err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"coin_rewards": coins})
}
