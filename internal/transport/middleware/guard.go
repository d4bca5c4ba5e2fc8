package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/heartmarshall/transcribe-dashboard/internal/transport/router"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

type matchKey struct{}

// MatchFromCtx returns the route match stored by Guard.
func MatchFromCtx(ctx context.Context) (router.Match, bool) {
	m, ok := ctx.Value(matchKey{}).(router.Match)
	return m, ok
}

// Guard resolves page paths against the table, follows redirect records and
// applies the auth guard on every request. Allowed requests carry the match
// in context.
func Guard(table *router.Table, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			to, err := table.Resolve(r.URL.Path)
			if err != nil {
				logger.ErrorContext(r.Context(), "route resolve failed",
					slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			nav := router.Navigation{To: to, From: table.Match(refererPath(r))}
			decision := router.Guard(nav, ctxutil.IsAuthenticated(r.Context()))

			if !decision.Allowed() {
				logger.DebugContext(r.Context(), "navigation redirected",
					slog.String("to", to.Path),
					slog.String("from", nav.From.Path),
					slog.String("redirect", decision.Redirect))
				http.Redirect(w, r, decision.Redirect, http.StatusFound)
				return
			}

			if to.Path != r.URL.Path {
				target := to.Path
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), matchKey{}, to)))
		})
	}
}

func refererPath(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
