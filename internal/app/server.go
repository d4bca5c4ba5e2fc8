package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/transcribe-dashboard/internal/config"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/middleware"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/rest"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/router"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/web"
)

// Deps are the collaborators NewHandler routes requests to.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Auth     authService
	Sessions *session.Registry
	DB       dbPinger
	Limiter  *middleware.RateLimiter
	Version  string
}

// NewHandler builds the full HTTP surface: REST API, form posts, pages and
// health checks behind the shared middleware stack.
func NewHandler(d Deps) (http.Handler, error) {
	cfg := d.Config
	logger := d.Logger

	pages, err := web.NewPages(d.Sessions, logger)
	if err != nil {
		return nil, err
	}

	authH := rest.NewAuthHandler(d.Auth, rest.CookieOptions{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
		TTL:    cfg.Auth.SessionTTL,
	}, logger)
	audioH := rest.NewAudioHandler(d.Sessions, cfg.Server.MaxUploadBytes, logger,
		rest.WithUploadDeadline(cfg.Server.UploadTimeout))
	chatH := rest.NewChatHandler(d.Sessions, logger)
	blogH := rest.NewBlogHandler(d.Sessions, logger)
	healthH := rest.NewHealthHandler(d.Version, rest.DatabaseCheck(d.DB), rest.SessionsCheck(d.Sessions))

	loginLimit := d.Limiter.Limit("login", cfg.Auth.LoginRatePerMin)
	signupLimit := d.Limiter.Limit("signup", cfg.Auth.LoginRatePerMin)
	api := func(h http.HandlerFunc) http.Handler {
		return middleware.Wrap(h, middleware.RequireSession)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", healthH.Live)
	mux.HandleFunc("GET /health/ready", healthH.Ready)
	mux.HandleFunc("GET /health", healthH.Health)

	mux.Handle("POST /api/auth/signup", middleware.Wrap(authH.Signup, signupLimit))
	mux.Handle("POST /api/auth/login", middleware.Wrap(authH.Login, loginLimit))
	mux.Handle("POST /api/auth/logout", api(authH.Logout))
	mux.HandleFunc("GET /api/auth/session", authH.Session)

	mux.Handle("GET /api/audio", api(audioH.List))
	mux.Handle("GET /api/audio/ready", api(audioH.Ready))
	mux.Handle("GET /api/audio/completed", api(audioH.Completed))
	mux.Handle("GET /api/audio/remote", api(audioH.RemoteList))
	mux.Handle("POST /api/audio", api(audioH.Upload))
	mux.Handle("PATCH /api/audio/{id}/status", api(audioH.UpdateStatus))
	mux.Handle("PUT /api/audio/{id}/transcription", api(audioH.SetTranscription))
	mux.Handle("POST /api/audio/{id}/transcription/modify", api(audioH.ModifyTranscription))
	mux.Handle("GET /api/audio/{id}/remote", api(audioH.RemoteDetails))
	mux.Handle("DELETE /api/audio/{id}", api(audioH.Delete))
	mux.Handle("POST /api/transcribe", api(audioH.Transcribe))

	mux.Handle("GET /api/chats", api(chatH.List))
	mux.Handle("POST /api/chats", api(chatH.Create))
	mux.Handle("GET /api/chats/current", api(chatH.Current))
	mux.Handle("PUT /api/chats/active", api(chatH.SetActive))
	mux.Handle("POST /api/chats/{id}/messages", api(chatH.AddMessage))
	mux.Handle("GET /api/chats/{id}/transcriptions", api(chatH.Transcriptions))
	mux.Handle("POST /api/prompt", api(chatH.Prompt))

	mux.Handle("GET /api/blog", api(blogH.Get))
	mux.Handle("POST /api/blog/outline", api(blogH.Outline))
	mux.Handle("POST /api/blog/article", api(blogH.Article))
	mux.Handle("PUT /api/blog/selection", api(blogH.Selection))

	mux.HandleFunc("/api/", apiNotFound)

	mux.Handle("POST /login", middleware.Wrap(authH.LoginForm, loginLimit))
	mux.Handle("POST /signup", middleware.Wrap(authH.SignupForm, signupLimit))
	mux.HandleFunc("POST /logout", authH.LogoutForm)

	mux.Handle("GET /static/", web.Static())
	mux.Handle("/", pagesOnly(middleware.Guard(router.DefaultTable(), logger)(pages)))

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(d.Auth, cfg.Auth.CookieName),
	)(mux), nil
}

// NewServer wraps the handler with the configured timeouts. Bodies have no
// server-wide read deadline; the upload handler sets its own.
func NewServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// pagesOnly limits the catch-all page route to GET and HEAD.
func pagesOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not found"}` + "\n")) //nolint:errcheck
}
