package domain

import (
	"io"
	"slices"
	"time"
)

// AudioFile is one file handed to the dashboard for ingestion.
// Name becomes the record title; Content is only read on upload.
type AudioFile struct {
	Name    string
	Content io.Reader
}

// AudioRecord is the client-side view of one ingested audio asset.
type AudioRecord struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Source        AudioSource    `json:"source"`
	CreatedAt     time.Time      `json:"createdAt"`
	Status        AudioStatus    `json:"status"`
	Transcription *Transcription `json:"transcription"`
}

// HasTranscription reports whether a transcription payload is attached.
func (a AudioRecord) HasTranscription() bool { return a.Transcription != nil }

// Clone returns a deep copy of the record.
func (a AudioRecord) Clone() AudioRecord {
	a.Transcription = a.Transcription.Clone()
	return a
}

// Transcription is the structured transcript attached to an AudioRecord.
type Transcription struct {
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Segments []TranscriptSegment `json:"segments,omitempty"`
}

// TranscriptSegment is a timestamped slice of a transcript.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Clone returns a deep copy; nil stays nil.
func (t *Transcription) Clone() *Transcription {
	if t == nil {
		return nil
	}
	c := *t
	c.Segments = slices.Clone(t.Segments)
	return &c
}
