package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/transcribe-dashboard/internal/config"
)

// CORS answers preflights and sets the allow headers for listed origins.
// With credentials enabled the request origin is echoed, never "*".
// A preflight from an unlisted origin gets 403.
func CORS(cfg config.CORSConfig) Middleware {
	origins := splitList(cfg.AllowedOrigins)
	wildcard := slices.Contains(origins, "*")
	maxAge := strconv.Itoa(cfg.MaxAge)

	allowed := func(origin string) bool {
		return wildcard || slices.Contains(origins, origin)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if origin == "" || !allowed(origin) {
				if preflight && origin != "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case cfg.AllowCredentials:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			default:
				h.Set("Access-Control-Allow-Origin", origin)
			}

			if preflight {
				h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
