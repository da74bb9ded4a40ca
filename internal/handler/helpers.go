package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/phantomapp/rewards/internal/auth"
	"github.com/phantomapp/rewards/internal/domain"
)

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject")
	}
	return id, nil
}

// pageParams reads limit/cursor query params. Limit is capped at 100.
func pageParams(r *http.Request) (*string, int) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	return cursor, limit
}
