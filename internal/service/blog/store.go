// Package blog holds the per-session outline/article generation state.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// OutlineParams describes what the outline should be generated from.
type OutlineParams struct {
	Topic            string   `json:"topic"`
	TranscriptionIDs []string `json:"transcriptionIds"`
	Tone             string   `json:"tone,omitempty"`
}

// Generator produces outlines and articles. Implementations may block.
type Generator interface {
	Outline(ctx context.Context, params OutlineParams) (*domain.Outline, error)
	Article(ctx context.Context, outline *domain.Outline) (string, error)
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	Loading                bool            `json:"loading"`
	Outline                *domain.Outline `json:"outline"`
	Article                *string         `json:"article"`
	SelectedTranscriptions []string        `json:"selectedTranscriptions"`
}

// Store tracks one session's generation jobs.
//
// Loading is a single flag: every generation sets it on start and clears it
// on every exit path, failures included. With overlapping generations the
// first one to finish clears it.
type Store struct {
	gen Generator
	log *slog.Logger

	mu       sync.Mutex
	loading  bool
	outline  *domain.Outline
	article  *string
	selected []string
}

// NewStore creates an empty Store.
func NewStore(gen Generator, logger *slog.Logger) *Store {
	return &Store{
		gen: gen,
		log: logger.With("service", "blog"),
	}
}

// GenerateOutline runs outline generation and replaces any previous outline on success.
func (s *Store) GenerateOutline(ctx context.Context, params OutlineParams) error {
	release := s.acquire()
	defer release()

	start := time.Now()
	outline, err := s.gen.Outline(ctx, params)
	if err != nil {
		s.logFailure(ctx, "outline", err)
		return fmt.Errorf("generate outline: %w", err)
	}

	s.mu.Lock()
	s.outline = outline.Clone()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "outline generated",
		slog.Int("sections", len(outline.Sections)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// GenerateArticle runs article generation from the current outline (possibly nil)
// and replaces any previous article on success.
func (s *Store) GenerateArticle(ctx context.Context) error {
	release := s.acquire()
	defer release()

	s.mu.Lock()
	outline := s.outline.Clone()
	s.mu.Unlock()

	article, err := s.gen.Article(ctx, outline)
	if err != nil {
		s.logFailure(ctx, "article", err)
		return fmt.Errorf("generate article: %w", err)
	}

	s.mu.Lock()
	s.article = &article
	s.mu.Unlock()

	s.log.InfoContext(ctx, "article generated", slog.Int("length", len(article)))
	return nil
}

func (s *Store) logFailure(ctx context.Context, kind string, err error) {
	if errors.Is(err, context.Canceled) {
		s.log.DebugContext(ctx, kind+" generation cancelled")
		return
	}
	s.log.ErrorContext(ctx, kind+" generation failed", slog.String("error", err.Error()))
}

// acquire raises the loading flag and returns the func that clears it.
// The release func is safe to call more than once.
func (s *Store) acquire() func() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		})
	}
}

// Loading reports the loading flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Outline returns a copy of the last generated outline, or nil.
func (s *Store) Outline() *domain.Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outline.Clone()
}

// Article returns the last generated article and whether one exists.
func (s *Store) Article() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.article == nil {
		return "", false
	}
	return *s.article, true
}

// SetSelectedTranscriptions replaces the transcription selection.
func (s *Store) SetSelectedTranscriptions(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = slices.Clone(ids)
}

// SelectedTranscriptions returns the current selection.
func (s *Store) SelectedTranscriptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Loading:                s.loading,
		Outline:                s.outline.Clone(),
		SelectedTranscriptions: slices.Clone(s.selected),
	}
	if snap.SelectedTranscriptions == nil {
		snap.SelectedTranscriptions = []string{}
	}
	if s.article != nil {
		a := *s.article
		snap.Article = &a
	}
	return snap
}
