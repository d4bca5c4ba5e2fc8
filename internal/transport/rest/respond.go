package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error  string          `json:"error"`
	Remote json.RawMessage `json:"remote,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// writeRemote relays a successful remote reply to the browser.
func writeRemote(w http.ResponseWriter, resp *transcriber.Response) {
	if len(resp.Body) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	w.Write(resp.Body) //nolint:errcheck
}

// handleError maps domain and transport errors to HTTP responses.
// Nothing is written once the client has gone away.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var remote *transcriber.RemoteError
	var reqErr *transcriber.RequestError

	switch {
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		log.DebugContext(r.Context(), "client went away", slog.String("error", err.Error()))
	case errors.As(err, &remote):
		log.WarnContext(r.Context(), "remote service error",
			slog.Int("remote_status", remote.StatusCode))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:  fmt.Sprintf("remote service returned status %d", remote.StatusCode),
			Remote: remotePayload(remote.Payload),
		})
	case errors.Is(err, transcriber.ErrNoResponse):
		writeError(w, http.StatusGatewayTimeout, transcriber.ErrNoResponse.Error())
	case errors.As(err, &reqErr):
		log.ErrorContext(r.Context(), "request construction failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not build remote request")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// remotePayload keeps JSON payloads as-is and quotes anything else.
func remotePayload(p json.RawMessage) json.RawMessage {
	if len(p) == 0 {
		return nil
	}
	if json.Valid(p) {
		return p
	}
	quoted, err := json.Marshal(string(p))
	if err != nil {
		return nil
	}
	return quoted
}

func invalidBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "invalid request body")
}
