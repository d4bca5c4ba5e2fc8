package domain

import "fmt"

// AudioSource tells how an audio file entered the dashboard.
type AudioSource string

const (
	AudioSourceUpload  AudioSource = "upload"
	AudioSourceYouTube AudioSource = "youtube"
)

func (s AudioSource) String() string { return string(s) }

func (s AudioSource) IsValid() bool {
	switch s {
	case AudioSourceUpload, AudioSourceYouTube:
		return true
	}
	return false
}

// ParseAudioSource converts a raw string into an AudioSource.
func ParseAudioSource(s string) (AudioSource, error) {
	src := AudioSource(s)
	if !src.IsValid() {
		return "", NewValidationError("source", fmt.Sprintf("unknown audio source %q", s))
	}
	return src, nil
}

// AudioStatus is the transcription lifecycle state of an AudioRecord.
// Transitions are driven only by explicit store calls.
type AudioStatus string

const (
	AudioStatusReady        AudioStatus = "ready"
	AudioStatusTranscribing AudioStatus = "transcribing"
	AudioStatusCompleted    AudioStatus = "completed"
	AudioStatusError        AudioStatus = "error"
)

func (s AudioStatus) String() string { return string(s) }

func (s AudioStatus) IsValid() bool {
	switch s {
	case AudioStatusReady, AudioStatusTranscribing, AudioStatusCompleted, AudioStatusError:
		return true
	}
	return false
}

// ParseAudioStatus converts a raw string into an AudioStatus.
func ParseAudioStatus(s string) (AudioStatus, error) {
	st := AudioStatus(s)
	if !st.IsValid() {
		return "", NewValidationError("status", fmt.Sprintf("unknown audio status %q", s))
	}
	return st, nil
}

// ChatStatus is the state of a ChatSession.
type ChatStatus string

const (
	ChatStatusPending   ChatStatus = "pending"
	ChatStatusCompleted ChatStatus = "completed"
)

func (s ChatStatus) String() string { return string(s) }

func (s ChatStatus) IsValid() bool {
	switch s {
	case ChatStatusPending, ChatStatusCompleted:
		return true
	}
	return false
}

// MessageRole identifies the author of a ChatMessage.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

func (r MessageRole) String() string { return string(r) }

func (r MessageRole) IsValid() bool {
	switch r {
	case MessageRoleUser, MessageRoleAssistant:
		return true
	}
	return false
}

// ParseMessageRole converts a raw string into a MessageRole.
func ParseMessageRole(s string) (MessageRole, error) {
	role := MessageRole(s)
	if !role.IsValid() {
		return "", NewValidationError("role", fmt.Sprintf("unknown message role %q", s))
	}
	return role, nil
}
