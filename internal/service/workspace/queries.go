package workspace

import "github.com/heartmarshall/transcribe-dashboard/internal/domain"

// AudioFiles returns copies of all records in insertion order.
func (s *Store) AudioFiles() []domain.AudioRecord {
	return s.filterAudio(func(*domain.AudioRecord) bool { return true })
}

// Audio returns a copy of one record.
func (s *Store) Audio(id string) (domain.AudioRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findAudio(id)
	if rec == nil {
		return domain.AudioRecord{}, false
	}
	return rec.Clone(), true
}

// ReadyAudios returns the records with status ready.
func (s *Store) ReadyAudios() []domain.AudioRecord {
	return s.filterAudio(func(a *domain.AudioRecord) bool { return a.Status == domain.AudioStatusReady })
}

// CompletedAudios returns the records with status completed.
func (s *Store) CompletedAudios() []domain.AudioRecord {
	return s.filterAudio(func(a *domain.AudioRecord) bool { return a.Status == domain.AudioStatusCompleted })
}

// Chats returns copies of all chats in creation order.
func (s *Store) Chats() []domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatSession, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.Clone()
	}
	return out
}

// Chat returns a copy of one chat.
func (s *Store) Chat(id string) (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findChat(id)
	if c == nil {
		return domain.ChatSession{}, false
	}
	return c.Clone(), true
}

// ActiveChatID returns the active-chat pointer, which may name no chat.
func (s *Store) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeChat
}

// CurrentChat returns the chat the active-chat pointer names, if it exists.
func (s *Store) CurrentChat() (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findChat(s.activeChat)
	if c == nil {
		return domain.ChatSession{}, false
	}
	return c.Clone(), true
}

// ChatTranscriptions returns the records referenced by the chat that also
// carry a transcription, in store order. Unknown chats yield nil.
func (s *Store) ChatTranscriptions(chatID string) []domain.AudioRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findChat(chatID)
	if c == nil {
		return nil
	}

	out := []domain.AudioRecord{}
	for _, rec := range s.audio {
		if c.References(rec.ID) && rec.HasTranscription() {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (s *Store) filterAudio(keep func(*domain.AudioRecord) bool) []domain.AudioRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.AudioRecord{}
	for _, rec := range s.audio {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}
