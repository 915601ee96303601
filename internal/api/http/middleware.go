package http

import (
	"context"
	"net/http"
	"strings"

	"toolshare-reservation-backend/internal/logger"
	"toolshare-reservation-backend/internal/security"

	"github.com/google/uuid"
)

type contextKey string

const (
	actorIDKey   contextKey = "actor_id"
	requestIDKey contextKey = "request_id"
)

// ActorID returns the authenticated user ID injected by AuthMiddleware.
// Handlers always take the actor from the token, never from the request body.
func ActorID(r *http.Request) int32 {
	if id, ok := r.Context().Value(actorIDKey).(int32); ok {
		return id
	}
	return 0
}

// RequestID returns the request ID assigned by RequestIDMiddleware.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware tags every request with a UUID for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware verifies the bearer token and injects the actor ID.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			writeErrorCode(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authorization token is not provided")
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			logger.WithRequest(RequestID(r)).Debug("Token validation failed", "error", err)
			writeErrorCode(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), actorIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if len(header) > 7 && strings.EqualFold(header[0:7], "bearer ") {
		return header[7:], true
	}
	return header, true
}
