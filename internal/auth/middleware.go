package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware verifies the bearer token against the identity provider and
// stores the subject claim in the request context. The core services never
// read ambient session state; handlers pull the user id out of the context and
// pass it down explicitly.
func Middleware(issuer string) func(http.Handler) http.Handler {
	if issuer == "" {
		panic("OIDC issuer not configured")
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		panic(fmt.Sprintf("Failed to create OIDC provider: %v", err))
	}

	// SkipClientIDCheck: tokens are minted for the web client, not this service
	verifier := provider.Verifier(&oidc.Config{
		SkipClientIDCheck: true,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			idToken, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			var claims struct {
				Sub string `json:"sub"`
			}
			if err := idToken.Claims(&claims); err != nil || claims.Sub == "" {
				http.Error(w, "token has no subject claim", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevMiddleware extracts the subject claim without signature verification.
// Used when no OIDC issuer is configured (local development only).
func DevMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := ExtractUserIDFromJWT(rawToken)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID is a test helper for building pre-authenticated contexts.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
