package domain

import (
	"slices"
	"time"
)

// ChatSession is a named conversation over a set of AudioRecords.
// TranscriptionIDs reference records by id; they need not have a transcription yet.
type ChatSession struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	TranscriptionIDs []string      `json:"transcriptionIds"`
	Messages         []ChatMessage `json:"messages"`
	CreatedAt        time.Time     `json:"createdAt"`
	Status           ChatStatus    `json:"status"`
}

// References reports whether the chat points at the given audio id.
func (c ChatSession) References(audioID string) bool {
	return slices.Contains(c.TranscriptionIDs, audioID)
}

// Clone returns a deep copy of the session.
func (c ChatSession) Clone() ChatSession {
	c.TranscriptionIDs = slices.Clone(c.TranscriptionIDs)
	c.Messages = slices.Clone(c.Messages)
	return c
}

// ChatMessage is one append-only entry in a ChatSession.
type ChatMessage struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Role      MessageRole `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
}
