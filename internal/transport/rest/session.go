package rest

import (
	"net/http"

	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

// sessionLookup resolves the live session state for a request.
type sessionLookup interface {
	Get(id string) (*session.State, bool)
}

// currentSession returns the request's session, writing 401 if it is gone.
func currentSession(sessions sessionLookup, w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	id, ok := ctxutil.SessionIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	st, ok := sessions.Get(id)
	if !ok {
		writeError(w, http.StatusUnauthorized, "session expired")
		return nil, false
	}
	return st, true
}
