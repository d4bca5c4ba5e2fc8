package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// AddAudio creates one ready record per file, appended in order. Local only.
func (s *Store) AddAudio(files []domain.AudioFile, source domain.AudioSource) []domain.AudioRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]domain.AudioRecord, 0, len(files))
	for _, f := range files {
		rec := &domain.AudioRecord{
			ID:        s.newID("audio"),
			Title:     f.Name,
			Source:    source,
			CreatedAt: s.now(),
			Status:    domain.AudioStatusReady,
		}
		s.audio = append(s.audio, rec)
		created = append(created, rec.Clone())
	}

	s.log.Debug("audio added", slog.Int("count", len(created)), slog.String("source", source.String()))

	return created
}

// UpdateAudioStatus overwrites the status of a record. Unknown ids are ignored.
func (s *Store) UpdateAudioStatus(id string, status domain.AudioStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.findAudio(id); rec != nil {
		rec.Status = status
	}
}

// SetTranscription attaches t and forces status completed. Unknown ids are ignored.
func (s *Store) SetTranscription(id string, t domain.Transcription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.findAudio(id); rec != nil {
		rec.Transcription = t.Clone()
		rec.Status = domain.AudioStatusCompleted
	}
}

// UploadAudio sends files as multipart parts file-0, file-1, ... bounded by
// the upload timeout. The transport result is returned as is.
func (s *Store) UploadAudio(ctx context.Context, path string, files []domain.AudioFile) (*transcriber.Response, error) {
	parts := make([]transcriber.FilePart, len(files))
	for i, f := range files {
		parts[i] = transcriber.FilePart{
			Field:    fmt.Sprintf("file-%d", i),
			Filename: f.Name,
			Content:  f.Content,
		}
	}
	return s.transport.PostMultipart(ctx, path, parts, s.uploadTimeout)
}

// GetAudioFiles forwards a read of the remote audio list.
func (s *Store) GetAudioFiles(ctx context.Context, path string) (*transcriber.Response, error) {
	return s.transport.Get(ctx, path)
}

// GetAudioDetails forwards a read of one remote audio entry.
func (s *Store) GetAudioDetails(ctx context.Context, path string) (*transcriber.Response, error) {
	return s.transport.Get(ctx, path)
}

type transcribeRequest struct {
	AudioIDs []string `json:"audioIds"`
	Language string   `json:"language"`
}

// TranscribeAudios requests transcription of ids in language. Local statuses
// are left untouched.
func (s *Store) TranscribeAudios(ctx context.Context, ids []string, language string) (*transcriber.Response, error) {
	if ids == nil {
		ids = []string{}
	}
	return s.transport.PostJSON(ctx, transcribePath, transcribeRequest{AudioIDs: ids, Language: language})
}

type modifyRequest struct {
	Prompt string `json:"prompt"`
}

// ModifyTranscription forwards a free-text edit instruction.
func (s *Store) ModifyTranscription(ctx context.Context, path, prompt string) (*transcriber.Response, error) {
	return s.transport.PostJSON(ctx, path, modifyRequest{Prompt: prompt})
}

// DeleteAudio forwards a delete. The local record, if any, is kept.
func (s *Store) DeleteAudio(ctx context.Context, path string) (*transcriber.Response, error) {
	return s.transport.Delete(ctx, path)
}

// findAudio must be called with s.mu held.
func (s *Store) findAudio(id string) *domain.AudioRecord {
	for _, rec := range s.audio {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}
