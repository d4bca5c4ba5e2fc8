package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/transcribe-dashboard/internal/service/blog"
)

// BlogHandler serves outline/article generation for the current session.
type BlogHandler struct {
	sessions sessionLookup
	log      *slog.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(sessions sessionLookup, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{sessions: sessions, log: logger.With("handler", "blog")}
}

type selectionRequest struct {
	TranscriptionIDs []string `json:"transcriptionIds"`
}

// Get handles GET /api/blog.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Blog.Snapshot())
}

// Outline handles POST /api/blog/outline. Blocks until generation settles.
func (h *BlogHandler) Outline(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var params blog.OutlineParams
	if err := decodeJSON(w, r, &params); err != nil {
		invalidBody(w)
		return
	}
	if len(params.TranscriptionIDs) == 0 {
		params.TranscriptionIDs = st.Blog.SelectedTranscriptions()
	}

	if err := st.Blog.GenerateOutline(r.Context(), params); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Blog.Snapshot())
}

// Article handles POST /api/blog/article.
func (h *BlogHandler) Article(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	if err := st.Blog.GenerateArticle(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Blog.Snapshot())
}

// Selection handles PUT /api/blog/selection.
func (h *BlogHandler) Selection(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}

	st.Blog.SetSelectedTranscriptions(req.TranscriptionIDs)
	w.WriteHeader(http.StatusNoContent)
}
