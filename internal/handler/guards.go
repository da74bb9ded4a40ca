package handler

import (
	"net/http"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/guard"
)

// ClaimGuards applies the per-user rate limit and Idempotency-Key dedupe
// shared by the claim and redeem endpoints. The DB-level unique indexes are
// the real guarantee; these cut the double-tap traffic before it gets there.
//
// A failed request releases its idempotency key so the client can retry
// with the same one.
func ClaimGuards(rl *guard.RateLimiter, ig *guard.IdempotencyGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromContext(r)
			if err != nil {
				RespondError(w, err)
				return
			}

			if result := rl.Check(r.Context(), userID.String()); !result.Allowed {
				RespondError(w, &domain.AppError{
					Code:    "RATE_LIMITED",
					Message: result.Reason,
					Status:  http.StatusTooManyRequests,
				})
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if result := ig.Check(r.Context(), key); !result.Allowed {
				RespondError(w, domain.ErrConflict(result.Reason))
				return
			}

			ww := &responseWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(ww, r)
			if key != "" && ww.status >= 400 {
				ig.Remove(key)
			}
		})
	}
}
