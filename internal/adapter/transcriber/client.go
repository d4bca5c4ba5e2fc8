// Package transcriber is the HTTP transport to the remote transcription service.
//
// All calls target one base address. Failures come back in exactly one of
// three shapes: *RemoteError, an error wrapping ErrNoResponse, or *RequestError.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/config"
)

// Response is a successful (2xx) reply from the remote service.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FilePart is one file in a multipart submission.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Client talks to the remote transcription service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from TranscriberConfig.
func New(cfg config.TranscriberConfig, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.RequestTimeout}, logger)
}

// NewWithHTTPClient creates a Client with a custom base URL and http.Client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logger.With("adapter", "transcriber"),
	}
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a JSON GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

// PostJSON issues a POST with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// Delete issues a JSON DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil)
}

// PostMultipart streams parts as multipart/form-data. A positive timeout
// bounds the whole exchange, independently of the client default.
func (c *Client) PostMultipart(ctx context.Context, path string, parts []FilePart, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	req, err := c.newRequest(ctx, http.MethodPost, path, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	written := make(chan *RequestError, 1)
	go func() {
		werr := writeParts(mw, parts)
		if werr != nil {
			pw.CloseWithError(werr)
		} else {
			pw.Close()
		}
		written <- werr
	}()

	// settle stops the writer and reports a local failure to produce the body.
	// A closed pipe means the transport stopped reading, which is not one.
	settle := func() *RequestError {
		pr.Close()
		werr := <-written
		if werr != nil && errors.Is(werr.Err, io.ErrClosedPipe) {
			return nil
		}
		return werr
	}

	return c.send(req, path, settle)
}

func writeParts(mw *multipart.Writer, parts []FilePart) *RequestError {
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.Field, p.Filename)
		if err != nil {
			return &RequestError{Op: "create form file", Err: err}
		}
		if p.Content != nil {
			if _, err := io.Copy(fw, p.Content); err != nil {
				return &RequestError{Op: "copy form file", Err: err}
			}
		}
	}
	if err := mw.Close(); err != nil {
		return &RequestError{Op: "close multipart", Err: err}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, c.requestError(ctx, "encode json", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, path, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, c.requestError(ctx, "resolve url", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, c.requestError(ctx, "new request", path, err)
	}
	return req, nil
}

// resolve joins path onto the base address. Absolute URLs are rejected so
// every call stays on the configured host.
func (c *Client) resolve(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if u.IsAbs() || u.Host != "" {
		return "", fmt.Errorf("path %q must be relative to the base address", path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path, nil
}

// send performs req. A non-nil settle is called as soon as the round trip
// returns; a body failure it reports wins over the transport result.
func (c *Client) send(req *http.Request, path string, settle func() *RequestError) (*Response, error) {
	ctx := req.Context()
	start := time.Now()

	c.log.DebugContext(ctx, "transcriber request",
		slog.String("method", req.Method),
		slog.String("path", path),
	)

	resp, err := c.httpClient.Do(req)
	if settle != nil {
		if berr := settle(); berr != nil {
			if err == nil {
				resp.Body.Close()
			}
			return nil, c.requestError(ctx, berr.Op, path, berr.Err)
		}
	}
	if err != nil {
		c.log.ErrorContext(ctx, "transcriber request failed",
			slog.String("method", req.Method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, noResponse(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.ErrorContext(ctx, "transcriber read body failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, noResponse(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.ErrorContext(ctx, "transcriber response error",
			slog.String("method", req.Method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 200)),
		)
		return nil, &RemoteError{StatusCode: resp.StatusCode, Payload: body}
	}

	c.log.DebugContext(ctx, "transcriber response",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) requestError(ctx context.Context, op, path string, err error) error {
	c.log.ErrorContext(ctx, "transcriber request build failed",
		slog.String("op", op),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
	return &RequestError{Op: op, Err: err}
}
