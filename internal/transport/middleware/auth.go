package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error)
}

// Auth resolves the session from a Bearer token or the session cookie.
// Invalid credentials of either kind leave the request anonymous: page views
// fall through to the route guard and API calls to RequireSession. An invalid
// cookie is also cleared.
func Auth(validator tokenValidator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractBearerToken(r); token != "" {
				id, err := validator.ValidateToken(r.Context(), token)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
				serveWithIdentity(next, w, r, id)
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}

			id, err := validator.ValidateToken(r.Context(), cookie.Value)
			if err != nil {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				next.ServeHTTP(w, r)
				return
			}
			serveWithIdentity(next, w, r, id)
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ctxutil.IsAuthenticated(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}` + "\n")) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r)
	})
}

func serveWithIdentity(next http.Handler, w http.ResponseWriter, r *http.Request, id ctxutil.Identity) {
	recordIdentity(r.Context(), id)
	next.ServeHTTP(w, r.WithContext(ctxutil.WithIdentity(r.Context(), id)))
}

// extractBearerToken reads the Authorization header; the scheme is case-insensitive.
func extractBearerToken(r *http.Request) string {
	const prefix = "bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
