package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nirman-fieldworks/internal/client/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenAttachedWhenSessionPresent(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save("tok-abc", json.RawMessage(`{"id":1}`)))

	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, store)
	require.NoError(t, tr.Get(context.Background(), "/ping", nil))

	// Exactly one Authorization header equal to the stored token.
	require.Len(t, gotAuth, 1)
	assert.Equal(t, "Bearer tok-abc", gotAuth[0])
}

func TestNoBearerTokenWithoutSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, tr.Get(context.Background(), "/ping", nil))
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsSessionFromAnyEndpoint(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save("stale", json.RawMessage(`{"id":1}`)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Access token expired"}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, store)
	err := tr.Get(context.Background(), "/work-proposals/42", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionExpired))
	assert.False(t, store.IsAuthenticated(), "401 must clear the whole session")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Access token expired", apiErr.Message)
}

func TestNetworkFailureNamesBaseURL(t *testing.T) {
	// A closed server gives connection refused: no response at all.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	tr := New(base, session.NewMemoryStore())
	err := tr.Get(context.Background(), "/ping", nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Contains(t, err.Error(), base)
	assert.Contains(t, err.Error(), "cannot connect to server")
}

func TestTimeoutSurfacesAsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := New(srv.URL, session.NewMemoryStore(), WithTimeout(20*time.Millisecond))
	err := tr.Get(context.Background(), "/slow", nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "timeout must surface as a network failure, got %v", err)
}

func TestServerErrorPreservesMessageAndBody(t *testing.T) {
	const body = `{"success":false,"message":"Work proposal not found"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Save("tok", json.RawMessage(`{"id":1}`)))

	tr := New(srv.URL, store)
	err := tr.Get(context.Background(), "/work-proposals/99", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Work proposal not found", apiErr.Message)
	assert.JSONEq(t, body, string(apiErr.Body))
	// Only a 401 invalidates the session.
	assert.True(t, store.IsAuthenticated())
	assert.False(t, errors.Is(err, ErrSessionExpired))
}

func TestDefaultBaseURLFallback(t *testing.T) {
	tr := New("", session.NewMemoryStore())
	assert.NotEmpty(t, tr.BaseURL())
	assert.False(t, strings.HasSuffix(tr.BaseURL(), "/"))
}

func TestJSONContentTypeDefault(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New(srv.URL, session.NewMemoryStore())
	require.NoError(t, tr.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.com"}, nil))
	assert.Equal(t, "application/json", gotContentType)
}
