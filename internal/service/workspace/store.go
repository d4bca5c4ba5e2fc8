// Package workspace holds the per-session audio and chat state.
//
// A Store is the authoritative in-memory view of one session's audio records
// and chat sessions, and mediates every transcription-related call to the
// remote service. Remote calls never touch local state: after TranscribeAudios
// or DeleteAudio succeeds, reconciling local records (UpdateAudioStatus,
// SetTranscription, ...) is the caller's job.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// DefaultUploadTimeout bounds UploadAudio.
const DefaultUploadTimeout = 30 * time.Second

const (
	transcribePath = "/transcribe"
	promptPath     = "/chat"
)

type transport interface {
	Get(ctx context.Context, path string) (*transcriber.Response, error)
	PostJSON(ctx context.Context, path string, body any) (*transcriber.Response, error)
	Delete(ctx context.Context, path string) (*transcriber.Response, error)
	PostMultipart(ctx context.Context, path string, parts []transcriber.FilePart, timeout time.Duration) (*transcriber.Response, error)
}

// Actions is the full set of operations a Store offers.
type Actions interface {
	AddAudio(files []domain.AudioFile, source domain.AudioSource) []domain.AudioRecord
	UpdateAudioStatus(id string, status domain.AudioStatus)
	SetTranscription(id string, t domain.Transcription)
	UploadAudio(ctx context.Context, path string, files []domain.AudioFile) (*transcriber.Response, error)
	GetAudioFiles(ctx context.Context, path string) (*transcriber.Response, error)
	GetAudioDetails(ctx context.Context, path string) (*transcriber.Response, error)
	TranscribeAudios(ctx context.Context, ids []string, language string) (*transcriber.Response, error)
	ModifyTranscription(ctx context.Context, path, prompt string) (*transcriber.Response, error)
	DeleteAudio(ctx context.Context, path string) (*transcriber.Response, error)

	CreateNewChat(transcriptionIDs []string) string
	AddMessageToChat(chatID string, msg NewMessage)
	SetActiveChat(chatID string)
	SendPrompt(ctx context.Context, prompt string, transcriptionIDs []string) (*transcriber.Response, error)

	AudioFiles() []domain.AudioRecord
	Audio(id string) (domain.AudioRecord, bool)
	ReadyAudios() []domain.AudioRecord
	CompletedAudios() []domain.AudioRecord
	Chats() []domain.ChatSession
	Chat(id string) (domain.ChatSession, bool)
	ActiveChatID() string
	CurrentChat() (domain.ChatSession, bool)
	ChatTranscriptions(chatID string) []domain.AudioRecord
}

var _ Actions = (*Store)(nil)

// Store is one session's audio/chat state. The mutex is held only around
// in-memory access, never across a transport call.
type Store struct {
	transport     transport
	uploadTimeout time.Duration
	newID         func(prefix string) string
	now           func() time.Time
	log           *slog.Logger

	mu         sync.Mutex
	audio      []*domain.AudioRecord
	chats      []*domain.ChatSession
	activeChat string
}

// Option configures a Store.
type Option func(*Store)

// WithUploadTimeout overrides DefaultUploadTimeout.
func WithUploadTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.uploadTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the default "<prefix>-<uuid>" ids.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates an empty Store bound to the given transport.
func New(t transport, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		transport:     t,
		uploadTimeout: DefaultUploadTimeout,
		newID:         defaultID,
		now:           time.Now,
		log:           logger.With("service", "workspace"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
