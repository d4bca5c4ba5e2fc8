// Package web renders the dashboard's HTML views.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/middleware"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/router"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = map[string]string{
	router.ViewLogin:   "login.tmpl",
	router.ViewSignup:  "signup.tmpl",
	router.ViewUpload:  "upload.tmpl",
	router.ViewListing: "listing.tmpl",
}

type sessionLookup interface {
	Get(id string) (*session.State, bool)
}

// Pages serves the view selected by the route guard.
type Pages struct {
	tmpl     *template.Template
	sessions sessionLookup
	log      *slog.Logger
}

type pageData struct {
	View          string
	Path          string
	Authenticated bool
	Error         string
	Redirect      string
	RequestID     string
	Audio         []domain.AudioRecord
	Chats         []domain.ChatSession
}

// NewPages parses the embedded templates.
func NewPages(sessions sessionLookup, logger *slog.Logger) (*Pages, error) {
	funcMap := sprig.HtmlFuncMap()
	funcMap["statusClass"] = statusClass

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS,
		"templates/includes/*.tmpl",
		"templates/pages/*.tmpl",
	)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Pages{tmpl: tmpl, sessions: sessions, log: logger.With("handler", "web")}, nil
}

// ServeHTTP renders the page for the match stored by middleware.Guard.
func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	match, ok := middleware.MatchFromCtx(r.Context())
	if !ok {
		http.NotFound(w, r)
		return
	}
	name, ok := pageTemplates[match.Name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		View:          match.Name,
		Path:          match.Path,
		Authenticated: ctxutil.IsAuthenticated(r.Context()),
		Error:         r.URL.Query().Get("error"),
		Redirect:      router.SafeRedirect(r.URL.Query().Get("redirect"), ""),
		RequestID:     ctxutil.RequestIDFromCtx(r.Context()),
	}
	if st, ok := p.state(r); ok {
		data.Audio = st.Workspace.AudioFiles()
		data.Chats = st.Workspace.Chats()
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.log.ErrorContext(r.Context(), "render page failed",
			slog.String("view", match.Name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck
}

func (p *Pages) state(r *http.Request) (*session.State, bool) {
	id, ok := ctxutil.SessionIDFromCtx(r.Context())
	if !ok {
		return nil, false
	}
	return p.sessions.Get(id)
}

func statusClass(s domain.AudioStatus) string {
	return "status-" + strings.ToLower(s.String())
}

// Static serves the embedded stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
