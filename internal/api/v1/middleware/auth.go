package middleware

import (
	"context"
	"net/http"

	"github.com/deepgram/danmaku/internal/services/oauth"
	"github.com/deepgram/danmaku/pkg/httpext"
	"github.com/deepgram/danmaku/pkg/logger"
)

type contextKey string

const (
	tokenValidationKey contextKey = "tokenValidation"
)

// RequireAuth demands a valid access token carrying scope. When enabled is
// false every request passes through untouched.
func RequireAuth(enabled bool, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := oauth.ExtractToken(r)
			if tokenString == "" {
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			validation := oauth.ValidateToken(tokenString)
			if !validation.Valid {
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if !validation.HasScope(scope) {
				logger.For(logger.MIDDLEWARE).Warn().
					Str("path", r.URL.Path).
					Str("required_scope", scope).
					Strs("token_scopes", validation.Scopes).
					Msg("Token missing required scope")
				httpext.JsonError(w, "Insufficient scope", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), tokenValidationKey, &validation)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenValidation returns the validated token stored by RequireAuth, if any.
func TokenValidation(ctx context.Context) (*oauth.TokenValidationResult, bool) {
	validation, ok := ctx.Value(tokenValidationKey).(*oauth.TokenValidationResult)
	return validation, ok && validation != nil
}
