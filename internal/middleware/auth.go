package middleware

import (
	"context"
	"net/http"
	"strings"

	"tradehub-api/internal/service"
	"tradehub-api/pkg/apierror"
)

// ViewerKey is the context key for the authenticated viewer's steamid.
const ViewerKey contextKey = "viewer_steamid"

// NewAuthMiddleware resolves the viewer identity before any handler
// runs: a missing token is a 401, an invalid or expired one a 403,
// and in both cases the request never reaches a service.
func NewAuthMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, apierror.Unauthorized(""))
				return
			}

			data, err := sessions.Validate(r.Context(), token)
			if err != nil {
				writeError(w, apierror.Forbidden("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ViewerKey, data.SteamID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the session token from the Authorization
// header, with X-Token as a fallback for legacy clients.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-Token")
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetViewer retrieves the authenticated steamid from request context.
func GetViewer(ctx context.Context) string {
	if id, ok := ctx.Value(ViewerKey).(string); ok {
		return id
	}
	return ""
}
