package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/blog"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/workspace"
	"github.com/heartmarshall/transcribe-dashboard/pkg/ctxutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	registry *session.Registry
	state    *session.State
	remote   *httptest.Server
}

// newTestEnv opens one session whose workspace talks to a fake remote service.
func newTestEnv(t *testing.T, remote http.HandlerFunc) *testEnv {
	t.Helper()

	log := testLogger()
	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	client := transcriber.NewWithHTTPClient(srv.URL, srv.Client(), log)
	reg := session.NewRegistry(func(string) (*workspace.Store, *blog.Store) {
		return workspace.New(client, log), blog.NewStore(blog.SimulatedGenerator{}, log)
	}, log)

	return &testEnv{registry: reg, state: reg.Open(uuid.New()), remote: srv}
}

// withSession attaches the env's session identity to the request.
func (e *testEnv) withSession(r *http.Request) *http.Request {
	return r.WithContext(ctxutil.WithIdentity(r.Context(), ctxutil.Identity{
		AccountID: e.state.AccountID,
		SessionID: e.state.ID,
	}))
}

func withIdentity(ctx context.Context, sessionID string) context.Context {
	return ctxutil.WithIdentity(ctx, ctxutil.Identity{AccountID: uuid.New(), SessionID: sessionID})
}

func noRemote(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected remote call %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
