package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomapp/rewards/internal/auth"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/guard"
)

// --- RespondJSON Tests ---

func TestRespondJSON(t *testing.T) {
	t.Run("200 with body", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("204 with nil body", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondJSON(w, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

// --- RespondError Tests ---

func TestRespondError(t *testing.T) {
	t.Run("AppError maps to correct status", func(t *testing.T) {
		tests := []struct {
			err        *domain.AppError
			wantStatus int
			wantCode   string
		}{
			{domain.ErrNotFound("user", "123"), 404, "NOT_FOUND"},
			{domain.ErrValidation("bad input"), 400, "VALIDATION_ERROR"},
			{domain.ErrUnauthorized("no token"), 401, "UNAUTHORIZED"},
			{domain.ErrForbidden("not allowed"), 403, "FORBIDDEN"},
			{domain.ErrConflict("duplicate"), 409, "CONFLICT"},
			{domain.ErrInsufficientBalance(), 400, "INSUFFICIENT_BALANCE"},
			{domain.ErrInternal("oops", nil), 500, "INTERNAL_ERROR"},
		}

		for _, tt := range tests {
			t.Run(tt.wantCode, func(t *testing.T) {
				w := httptest.NewRecorder()
				RespondError(w, tt.err)
				assert.Equal(t, tt.wantStatus, w.Code)

				var body map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body["code"])
			})
		}
	})

	t.Run("wrapped AppError still maps", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, fmt.Errorf("delete review: %w", domain.ErrNotFound("reward", "abc")))
		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("generic error returns 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
	})
}

// --- Middleware Tests ---

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var captured string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.NotEmpty(t, captured)
		assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})

	t.Run("propagates incoming header", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard allows all", func(t *testing.T) {
		w := httptest.NewRecorder()
		CORS("*")(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin echoed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		CORS("https://app.example.com, https://admin.example.com")(next).ServeHTTP(w, req)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		CORS("https://app.example.com")(next).ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		CORS("*")(next).ServeHTTP(w, httptest.NewRequest("OPTIONS", "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestClaimGuards(t *testing.T) {
	userID := uuid.New()

	authedRequest := func(key string) *http.Request {
		req := httptest.NewRequest("POST", "/streak/claim", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		return req.WithContext(auth.ContextWithSubject(req.Context(), userID.String()))
	}

	t.Run("rejects unauthenticated", func(t *testing.T) {
		guards := ClaimGuards(guard.NewRateLimiter(10, time.Minute), guard.NewIdempotencyGuard())
		w := httptest.NewRecorder()
		guards(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		})).ServeHTTP(w, httptest.NewRequest("POST", "/streak/claim", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rate limit returns 429", func(t *testing.T) {
		guards := ClaimGuards(guard.NewRateLimiter(1, time.Minute), guard.NewIdempotencyGuard())
		h := guards(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest(""))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest(""))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("duplicate idempotency key conflicts", func(t *testing.T) {
		guards := ClaimGuards(guard.NewRateLimiter(10, time.Minute), guard.NewIdempotencyGuard())
		h := guards(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest("key-1"))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest("key-1"))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		guards := ClaimGuards(guard.NewRateLimiter(10, time.Minute), guard.NewIdempotencyGuard())
		fail := true
		h := guards(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail {
				RespondError(w, domain.ErrValidation("not yet"))
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest("key-2"))
		require.Equal(t, http.StatusBadRequest, w.Code)

		fail = false
		w = httptest.NewRecorder()
		h.ServeHTTP(w, authedRequest("key-2"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPageParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cursor, limit := pageParams(httptest.NewRequest("GET", "/rewards/me", nil))
		assert.Nil(t, cursor)
		assert.Equal(t, 20, limit)
	})

	t.Run("explicit values", func(t *testing.T) {
		cursor, limit := pageParams(httptest.NewRequest("GET", "/rewards/me?limit=50&cursor=xyz", nil))
		require.NotNil(t, cursor)
		assert.Equal(t, "xyz", *cursor)
		assert.Equal(t, 50, limit)
	})

	t.Run("max page size is accepted", func(t *testing.T) {
		_, limit := pageParams(httptest.NewRequest("GET", "/rewards/me?limit=100", nil))
		assert.Equal(t, 100, limit)
	})

	t.Run("oversized limit falls back", func(t *testing.T) {
		_, limit := pageParams(httptest.NewRequest("GET", "/rewards/me?limit=5000", nil))
		assert.Equal(t, 20, limit)
	})
}
