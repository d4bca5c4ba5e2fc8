package rest

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// Remote paths of the transcription service.
const (
	remoteUploadPath = "/upload"
	remoteAudioPath  = "/audio"
)

// multipartMemory is the in-memory part of a parsed upload; the rest spills to disk.
const multipartMemory = 32 << 20

// AudioHandler serves the audio endpoints of the current session.
type AudioHandler struct {
	sessions       sessionLookup
	maxUpload      int64
	uploadDeadline time.Duration
	now            func() time.Time
	log            *slog.Logger
}

// AudioOption configures an AudioHandler.
type AudioOption func(*AudioHandler)

// WithUploadDeadline gives each upload its own connection read and write
// deadline, measured from the start of the handler. Zero keeps the server's.
func WithUploadDeadline(d time.Duration) AudioOption {
	return func(h *AudioHandler) { h.uploadDeadline = d }
}

// NewAudioHandler creates an AudioHandler.
func NewAudioHandler(sessions sessionLookup, maxUpload int64, logger *slog.Logger, opts ...AudioOption) *AudioHandler {
	h := &AudioHandler{
		sessions:  sessions,
		maxUpload: maxUpload,
		now:       time.Now,
		log:       logger.With("handler", "audio"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type statusRequest struct {
	Status string `json:"status"`
}

type modifyRequest struct {
	Prompt string `json:"prompt"`
}

type transcribeRequest struct {
	AudioIDs []string `json:"audioIds"`
	Language string   `json:"language"`
}

type uploadResponse struct {
	Records []domain.AudioRecord `json:"records"`
	Remote  json.RawMessage      `json:"remote,omitempty"`
}

// List handles GET /api/audio.
func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(st.Workspace.AudioFiles()))
}

// Ready handles GET /api/audio/ready.
func (h *AudioHandler) Ready(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(st.Workspace.ReadyAudios()))
}

// Completed handles GET /api/audio/completed.
func (h *AudioHandler) Completed(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(st.Workspace.CompletedAudios()))
}

// Upload handles POST /api/audio: records the files locally, then submits
// them to the remote service. Records of a failed upload are marked error.
func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	h.extendDeadlines(w, r)
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	source := domain.AudioSourceUpload
	if v := r.FormValue("source"); v != "" {
		parsed, err := domain.ParseAudioSource(v)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		source = parsed
	}

	headers := collectFiles(r.MultipartForm)
	if len(headers) == 0 {
		handleError(h.log, w, r, domain.NewValidationError("files", "at least one file is required"))
		return
	}

	files := make([]domain.AudioFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			handleError(h.log, w, r, fmt.Errorf("open upload %s: %w", fh.Filename, err))
			return
		}
		defer f.Close()
		files = append(files, domain.AudioFile{Name: fh.Filename, Content: f})
	}

	records := st.Workspace.AddAudio(files, source)

	resp, err := st.Workspace.UploadAudio(r.Context(), remoteUploadPath, files)
	if err != nil {
		for _, rec := range records {
			st.Workspace.UpdateAudioStatus(rec.ID, domain.AudioStatusError)
		}
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Records: records, Remote: remotePayload(resp.Body)})
}

// UpdateStatus handles PATCH /api/audio/{id}/status.
func (h *AudioHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}
	status, err := domain.ParseAudioStatus(req.Status)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	st.Workspace.UpdateAudioStatus(r.PathValue("id"), status)
	w.WriteHeader(http.StatusNoContent)
}

// SetTranscription handles PUT /api/audio/{id}/transcription.
func (h *AudioHandler) SetTranscription(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var t domain.Transcription
	if err := decodeJSON(w, r, &t); err != nil {
		invalidBody(w)
		return
	}

	st.Workspace.SetTranscription(r.PathValue("id"), t)
	w.WriteHeader(http.StatusNoContent)
}

// RemoteList handles GET /api/audio/remote.
func (h *AudioHandler) RemoteList(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	resp, err := st.Workspace.GetAudioFiles(r.Context(), remoteAudioPath)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}

// RemoteDetails handles GET /api/audio/{id}/remote.
func (h *AudioHandler) RemoteDetails(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	resp, err := st.Workspace.GetAudioDetails(r.Context(), audioPath(r.PathValue("id")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}

// ModifyTranscription handles POST /api/audio/{id}/transcription/modify.
func (h *AudioHandler) ModifyTranscription(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req modifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		handleError(h.log, w, r, domain.NewValidationError("prompt", "required"))
		return
	}

	resp, err := st.Workspace.ModifyTranscription(r.Context(), audioPath(r.PathValue("id"))+"/modify", req.Prompt)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}

// Delete handles DELETE /api/audio/{id}. The local record is kept.
func (h *AudioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	resp, err := st.Workspace.DeleteAudio(r.Context(), audioPath(r.PathValue("id")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}

// Transcribe handles POST /api/transcribe. Records are marked transcribing
// before the call and error if it fails.
func (h *AudioHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	st, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	var req transcribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		invalidBody(w)
		return
	}
	if len(req.AudioIDs) == 0 {
		handleError(h.log, w, r, domain.NewValidationError("audioIds", "at least one id is required"))
		return
	}

	for _, id := range req.AudioIDs {
		st.Workspace.UpdateAudioStatus(id, domain.AudioStatusTranscribing)
	}

	resp, err := st.Workspace.TranscribeAudios(r.Context(), req.AudioIDs, req.Language)
	if err != nil {
		for _, id := range req.AudioIDs {
			st.Workspace.UpdateAudioStatus(id, domain.AudioStatusError)
		}
		handleError(h.log, w, r, err)
		return
	}
	writeRemote(w, resp)
}

func audioPath(id string) string {
	return remoteAudioPath + "/" + url.PathEscape(id)
}

// extendDeadlines lifts the server's body and write deadlines for a large upload.
func (h *AudioHandler) extendDeadlines(w http.ResponseWriter, r *http.Request) {
	if h.uploadDeadline <= 0 {
		return
	}
	deadline := h.now().Add(h.uploadDeadline)
	rc := http.NewResponseController(w)
	for _, set := range []func(time.Time) error{rc.SetReadDeadline, rc.SetWriteDeadline} {
		if err := set(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
			h.log.WarnContext(r.Context(), "set upload deadline failed", slog.String("error", err.Error()))
		}
	}
}

// collectFiles prefers the "files" field and otherwise takes every file part.
// Indexed "file-N" fields come first in numeric order, the rest by name.
func collectFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if fhs := form.File["files"]; len(fhs) > 0 {
		return fhs
	}
	var out []*multipart.FileHeader
	for _, field := range slices.SortedFunc(maps.Keys(form.File), compareFileFields) {
		out = append(out, form.File[field]...)
	}
	return out
}

func compareFileFields(a, b string) int {
	ia, okA := fileFieldIndex(a)
	ib, okB := fileFieldIndex(b)
	switch {
	case okA && okB:
		return cmp.Or(cmp.Compare(ia, ib), strings.Compare(a, b))
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func fileFieldIndex(field string) (int, bool) {
	num, ok := strings.CutPrefix(field, "file-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
