package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rbxassets/platform/services/payments/internal/application"
	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware resolves the calling actor from the bearer token. With a
// verifier configured the token must be a valid platform JWT; without one
// (local development) the raw subject is trusted, with "admin:"/"user:"
// prefixes selecting the role.
func authMiddleware(verifier ports.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", requestIDFrom(r.Context()))
				return
			}
			raw := strings.TrimSpace(authHeader[len("bearer "):])
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "empty bearer token", requestIDFrom(r.Context()))
				return
			}

			var actor application.Actor
			if verifier != nil {
				claims, err := verifier.ParseAndValidate(raw)
				if err != nil {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", requestIDFrom(r.Context()))
					return
				}
				actor = application.Actor{SubjectID: claims.SubjectID, Role: claims.Role}
			} else {
				subject, role := raw, "user"
				switch {
				case strings.HasPrefix(subject, "admin:"):
					role = "admin"
					subject = strings.TrimPrefix(subject, "admin:")
				case strings.HasPrefix(subject, "user:"):
					subject = strings.TrimPrefix(subject, "user:")
				}
				actor = application.Actor{SubjectID: subject, Role: role}
			}
			actor.RequestID = requestIDFrom(r.Context())

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFrom(ctx context.Context) application.Actor {
	if value := ctx.Value(actorKey); value != nil {
		if actor, ok := value.(application.Actor); ok {
			return actor
		}
	}
	return application.Actor{}
}

func requestIDFrom(ctx context.Context) string {
	if value := ctx.Value(requestIDKey); value != nil {
		if requestID, ok := value.(string); ok {
			return requestID
		}
	}
	return ""
}
