package middleware

import (
	"context"
	"net/http"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing staff data in request context
type contextKey string

const ClaimsContextKey contextKey = "claims"

// StaffAuthMiddleware protects the billing surface to authenticated staff.
// Tokens are issued by the platform's auth service; this service only
// verifies them.
func (mw *Middleware) StaffAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.StaffClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.StaffClaims)
	return claims, ok
}
