package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vardhmanmills/storefront/internal/session"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/logger"
	"github.com/vardhmanmills/storefront/pkg/middleware"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// sessionIDKey is the context key for the validated browsing-session ID.
const sessionIDKey contextKey = "session_id"

// SessionAuth validates the browsing-session bearer token minted by
// POST /api/v1/sessions and stores the session ID in the request context.
// Requests without a valid token are rejected with 401.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "a session token is required"},
				})
				return
			}

			sessionID, err := sessions.Validate(parts[1])
			if err != nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid or expired session token"},
				})
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionIDFromContext extracts the validated session ID. Handlers behind
// SessionAuth can rely on it being present.
func sessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// StaffTokenValidator returns a validator for HS256-signed back-office staff
// tokens, for use with middleware.StaffAuth.
func StaffTokenValidator(secret string) middleware.TokenValidator {
	key := []byte(secret)
	return func(tokenString string) (*middleware.StaffClaims, error) {
		type staffJWTClaims struct {
			middleware.StaffClaims
			jwt.RegisteredClaims
		}

		token, err := jwt.ParseWithClaims(tokenString, &staffJWTClaims{}, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse staff token: %w", err)
		}

		claims, ok := token.Claims.(*staffJWTClaims)
		if !ok || !token.Valid || claims.StaffID == "" {
			return nil, fmt.Errorf("invalid staff token claims")
		}
		return &claims.StaffClaims, nil
	}
}

// ContentTypeJSON enforces that requests with a body declare
// Content-Type: application/json. Multipart endpoints must not mount it.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
