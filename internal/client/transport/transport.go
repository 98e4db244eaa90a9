// Package transport is the single configured request pipeline the field
// client shares across all API calls: one base URL, one timeout, a bearer
// token attached on the way out and error normalization on the way in.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nirman-fieldworks/internal/client/session"
	"nirman-fieldworks/internal/config"
)

// DefaultTimeout bounds every request. There is no cancellation primitive
// beyond it; callers that stop caring about a result discard it.
const DefaultTimeout = 30 * time.Second

// ErrSessionExpired is returned whenever any endpoint answers 401. By the
// time a caller sees it the session store has already been cleared: the
// client never keeps operating on a session the server rejected.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx server response with its decoded message and the
// raw body preserved for diagnostics.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Unwrap makes errors.Is(err, ErrSessionExpired) hold for 401 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return nil
}

// NetworkError is a request that produced no response at all: DNS failure,
// connection refused, timeout.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot connect to server at %s: check your internet connection and ensure the backend is running", e.BaseURL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Transport is the configured HTTP pipeline.
type Transport struct {
	baseURL string
	store   session.Store
	client  *http.Client
}

// Option configures a Transport.
type Option func(*Transport)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) { t.client.Timeout = d }
}

// WithHTTPClient replaces the underlying client; its transport is still
// wrapped so the bearer interceptor applies.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.client = c }
}

// New creates a Transport rooted at baseURL. An empty baseURL falls back to
// the configured default. The store is read before every request and
// cleared on any 401.
func New(baseURL string, store session.Store, opts ...Option) *Transport {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}

	t := &Transport{
		baseURL: baseURL,
		store:   store,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}

	// Outgoing interceptor: attach the bearer token when a session exists.
	base := t.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	t.client.Transport = &authRoundTripper{store: store, base: base}

	return t
}

// BaseURL returns the configured server address.
func (t *Transport) BaseURL() string { return t.baseURL }

// authRoundTripper attaches Authorization: Bearer <token> to every request
// issued while a session is present. Requests with no session go out
// unauthenticated.
type authRoundTripper struct {
	store session.Store
	base  http.RoundTripper
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if s, ok := a.store.Current(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return a.base.RoundTrip(req)
}

// Get issues a GET and decodes the response into out (out may be nil).
func (t *Transport) Get(ctx context.Context, path string, out interface{}) error {
	return t.Do(ctx, http.MethodGet, path, "", nil, out)
}

// Post issues a JSON POST.
func (t *Transport) Post(ctx context.Context, path string, body, out interface{}) error {
	return t.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a JSON PUT.
func (t *Transport) Put(ctx context.Context, path string, body, out interface{}) error {
	return t.doJSON(ctx, http.MethodPut, path, body, out)
}

func (t *Transport) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	return t.Do(ctx, method, path, "application/json", reader, out)
}

// Do issues one request. contentType overrides the default application/json
// (progress submission passes its multipart boundary type here). Incoming
// handling applies to every call: network failures are rewritten into a
// NetworkError naming the base URL, a 401 clears the session store before
// the error is returned, and other non-2xx statuses surface the server's
// message with the raw body preserved.
func (t *Transport) Do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// No response received at all.
		return &NetworkError{BaseURL: t.baseURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{BaseURL: t.baseURL, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Global invariant: any 401 from any endpoint invalidates the
		// whole session, not just this request.
		t.store.Clear()
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(raw),
			Body:       raw,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(raw),
			Body:       raw,
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// serverMessage pulls the display message out of an error body. The backend
// sets both message and error; older deployments set only one.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
