package workspace

import (
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// NewMessage is the caller-supplied part of a ChatMessage.
type NewMessage struct {
	Content string
	Role    domain.MessageRole
}

// CreateNewChat starts a chat titled "Chat N", makes it active and returns its id.
func (s *Store) CreateNewChat(transcriptionIDs []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := &domain.ChatSession{
		ID:               s.newID("chat"),
		Title:            fmt.Sprintf("Chat %d", len(s.chats)+1),
		TranscriptionIDs: dedupe(transcriptionIDs),
		Messages:         []domain.ChatMessage{},
		CreatedAt:        s.now(),
		Status:           domain.ChatStatusPending,
	}
	s.chats = append(s.chats, chat)
	s.activeChat = chat.ID

	return chat.ID
}

// AddMessageToChat appends a message with a fresh id and timestamp.
// Unknown chat ids are ignored.
func (s *Store) AddMessageToChat(chatID string, msg NewMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findChat(chatID)
	if chat == nil {
		return
	}
	chat.Messages = append(chat.Messages, domain.ChatMessage{
		ID:        s.newID("msg"),
		Content:   msg.Content,
		Role:      msg.Role,
		Timestamp: s.now(),
	})
}

// SetActiveChat moves the active-chat pointer. The id is not checked.
func (s *Store) SetActiveChat(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeChat = chatID
}

type promptRequest struct {
	Prompt           string   `json:"prompt"`
	TranscriptionIDs []string `json:"transcriptionIds"`
}

// SendPrompt forwards prompt and the transcription ids to the remote processor.
func (s *Store) SendPrompt(ctx context.Context, prompt string, transcriptionIDs []string) (*transcriber.Response, error) {
	if transcriptionIDs == nil {
		transcriptionIDs = []string{}
	}
	return s.transport.PostJSON(ctx, promptPath, promptRequest{Prompt: prompt, TranscriptionIDs: transcriptionIDs})
}

// findChat must be called with s.mu held.
func (s *Store) findChat(id string) *domain.ChatSession {
	for _, c := range s.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
