package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore"
	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore/account"
	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
	"github.com/heartmarshall/transcribe-dashboard/internal/app"
	authpkg "github.com/heartmarshall/transcribe-dashboard/internal/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/config"
	authsvc "github.com/heartmarshall/transcribe-dashboard/internal/service/auth"
	"github.com/heartmarshall/transcribe-dashboard/internal/service/session"
	"github.com/heartmarshall/transcribe-dashboard/internal/transport/middleware"
)

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// fakeRemote records calls made to the transcription service and answers
// with a canned response per path.
type fakeRemote struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func (f *fakeRemote) respond(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = fakeResponse{status: status, body: body}
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body) //nolint:errcheck

	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	resp, ok := f.responses[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		resp = fakeResponse{status: http.StatusOK, body: `{"ok":true}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	io.WriteString(w, resp.body) //nolint:errcheck
}

type testServer struct {
	URL      string
	Remote   *fakeRemote
	Sessions *session.Registry
}

// setupTestServer bootstraps the full application stack backed by a
// temp-file SQLite database and a fake transcription service.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	// 1. Fake remote service.
	remote := &fakeRemote{responses: map[string]fakeResponse{}}
	remoteSrv := httptest.NewServer(remote)
	t.Cleanup(remoteSrv.Close)

	// 2. Config.
	cfg := &config.Config{
		Server: config.ServerConfig{MaxUploadBytes: 1 << 20},
		Database: config.DatabaseConfig{
			Driver:       sqlstore.DriverSQLite,
			DSN:          "file:" + filepath.Join(t.TempDir(), "e2e.db") + "?_pragma=busy_timeout(5000)",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret-at-least-32-chars-long!!",
			JWTIssuer:        "test-issuer",
			SessionTTL:       time.Hour,
			CookieName:       "session",
			PasswordHashCost: bcrypt.MinCost,
			LoginRatePerMin:  1000,
		},
		Transcriber: config.TranscriberConfig{
			BaseURL:        remoteSrv.URL,
			RequestTimeout: 5 * time.Second,
			UploadTimeout:  5 * time.Second,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
		},
	}

	// 3. Storage.
	db, err := sqlstore.Open(context.Background(), cfg.Database)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// 4. Services.
	client := transcriber.New(cfg.Transcriber, logger)
	sessions := session.NewRegistry(app.NewSessionFactory(cfg, client, logger), logger)
	jwtMgr := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	authService := authsvc.NewService(logger, account.New(db), sessions, jwtMgr, cfg.Auth)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	// 5. HTTP surface.
	handler, err := app.NewHandler(app.Deps{
		Config:   cfg,
		Logger:   logger,
		Auth:     authService,
		Sessions: sessions,
		DB:       db,
		Limiter:  limiter,
		Version:  "test-version",
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Remote: remote, Sessions: sessions}
}

// newBrowser returns a client with a cookie jar that does not follow redirects.
func (ts *testServer) newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// doJSON sends a JSON request and returns status + raw body.
func (ts *testServer) doJSON(t *testing.T, c *http.Client, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, c, req)
}

func (ts *testServer) do(t *testing.T, c *http.Client, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

// signup registers a fresh account over the JSON API and returns its token.
func (ts *testServer) signup(t *testing.T, c *http.Client, email string) string {
	t.Helper()

	status, body := ts.doJSON(t, c, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "password123",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("signup: status %d, body %s", status, body)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	return resp.Token
}

// upload posts files as a multipart form under the "files" field.
func (ts *testServer) upload(t *testing.T, c *http.Client, token string, names ...string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		io.WriteString(fw, "audio:"+name) //nolint:errcheck
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/audio", &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(t, c, req)
}

func (ts *testServer) postForm(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	resp.Body.Close()
	return resp
}

func (ts *testServer) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}
