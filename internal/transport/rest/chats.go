package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/workspace"
)

// ChatHandler serves the chat endpoints of the current session.
type ChatHandler struct {
	sessions sessionLookup
	log      *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(sessions sessionLookup, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{sessions: sessions, log: logger.With("handler", "chat")}
}

type createChatRequest struct {
	TranscriptionIDs []string `json:"transcriptionIds"`
}

type setActiveRequest struct {
	ChatID string `json:"chatId"`
}

type messageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type promptRequest struct {
	Prompt           string   `json:"prompt"`
	TranscriptionIDs []string `json:"transcriptionIds"`
}

type chatListResponse struct {
	Chats        []domain.ChatSession `json:"chats"`
	ActiveChatID string               `json:"activeChatId"`
}

// List handles GET /api/chats.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chatListResponse{
		Chats:        nonNil(st.Workspace.Chats()),
		ActiveChatID: st.Workspace.ActiveChatID(),
	})
}

// Create handles POST /api/chats. The new chat becomes active.
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req createChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}

	id := st.Workspace.CreateNewChat(req.TranscriptionIDs)
	chat, _ := st.Workspace.Chat(id)
	writeJSON(w, http.StatusCreated, chat)
}

// Current handles GET /api/chats/current.
func (h *ChatHandler) Current(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	chat, found := st.Workspace.CurrentChat()
	if !found {
		writeError(w, http.StatusNotFound, "no active chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// SetActive handles PUT /api/chats/active. Any id is accepted.
func (h *ChatHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}

	st.Workspace.SetActiveChat(req.ChatID)
	w.WriteHeader(http.StatusNoContent)
}

// AddMessage handles POST /api/chats/{id}/messages.
func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		handleError(h.log, w, r, domain.NewValidationError("content", "required"))
		return
	}
	role, err := domain.ParseMessageRole(req.Role)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	st.Workspace.AddMessageToChat(r.PathValue("id"), workspace.NewMessage{Content: req.Content, Role: role})
	w.WriteHeader(http.StatusNoContent)
}

// Transcriptions handles GET /api/chats/{id}/transcriptions.
func (h *ChatHandler) Transcriptions(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	records := st.Workspace.ChatTranscriptions(r.PathValue("id"))
	if records == nil {
		writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Prompt handles POST /api/prompt.
func (h *ChatHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req promptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		handleError(h.log, w, r, domain.NewValidationError("prompt", "required"))
		return
	}

	resp, err := st.Workspace.SendPrompt(r.Context(), req.Prompt, req.TranscriptionIDs)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}
