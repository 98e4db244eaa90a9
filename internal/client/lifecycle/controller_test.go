package lifecycle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"nirman-fieldworks/internal/client/api"
	"nirman-fieldworks/internal/client/session"
	"nirman-fieldworks/internal/client/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, handler http.HandlerFunc) (*Controller, *session.MemoryStore, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	store := session.NewMemoryStore()
	auth := api.NewAuthClient(transport.New(srv.URL, store))
	return NewController(store, auth), store, srv.Close
}

func TestInitialStateFollowsStore(t *testing.T) {
	store := session.NewMemoryStore()
	assert.Equal(t, Unauthenticated, NewController(store, nil).State())

	require.NoError(t, store.Save("T", []byte(`{"name":"Asha"}`)))
	assert.Equal(t, Authenticated, NewController(store, nil).State())
}

func TestLoginPersistsSessionThenAuthenticates(t *testing.T) {
	ctrl, store, done := newController(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"token":"T","user":{"name":"Asha","role":"FIELD_ENGINEER"}}}`))
	})
	defer done()

	require.NoError(t, ctrl.Login(context.Background(), "  asha@example.com ", "secret123"))
	assert.Equal(t, Authenticated, ctrl.State())

	sess, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "T", sess.Token)
	assert.Contains(t, string(sess.User), "Asha")
}

func TestLoginTokenlessResponseStaysUnauthenticated(t *testing.T) {
	ctrl, store, done := newController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	})
	defer done()

	err := ctrl.Login(context.Background(), "asha@example.com", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response from server")
	assert.Equal(t, Unauthenticated, ctrl.State())
	assert.False(t, store.IsAuthenticated())
}

func TestLoginValidationRejectsBeforeAnyRequest(t *testing.T) {
	ctrl, _, done := newController(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent for invalid credentials")
	})
	defer done()

	assert.ErrorIs(t, ctrl.Login(context.Background(), "", "secret123"), ErrMissingCredentials)
	assert.ErrorIs(t, ctrl.Login(context.Background(), "asha@example.com", "   "), ErrMissingCredentials)
	assert.ErrorIs(t, ctrl.Login(context.Background(), "not-an-email", "secret123"), ErrInvalidEmail)
	assert.ErrorIs(t, ctrl.Login(context.Background(), "asha@example", "secret123"), ErrInvalidEmail)
	assert.Equal(t, Unauthenticated, ctrl.State())
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save("T", []byte(`{}`)))
	ctrl := NewController(store, nil)

	require.NoError(t, ctrl.Logout())
	assert.Equal(t, Unauthenticated, ctrl.State())
	assert.False(t, store.IsAuthenticated())

	require.NoError(t, ctrl.Logout())
	assert.Equal(t, Unauthenticated, ctrl.State())
}

func TestHandleErrorOnExpiredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Token expired"}`))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Save("stale", []byte(`{}`)))
	tr := transport.New(srv.URL, store)
	ctrl := NewController(store, api.NewAuthClient(tr))
	require.Equal(t, Authenticated, ctrl.State())

	work := api.NewWorkClient(tr)
	_, err := work.ListProposals(context.Background())
	require.Error(t, err)

	assert.True(t, ctrl.HandleError(err))
	assert.Equal(t, Unauthenticated, ctrl.State())
}

func TestHandleErrorIgnoresOtherFailures(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save("T", []byte(`{}`)))
	ctrl := NewController(store, nil)

	assert.False(t, ctrl.HandleError(nil))
	assert.False(t, ctrl.HandleError(context.DeadlineExceeded))
	assert.Equal(t, Authenticated, ctrl.State())
}

func TestSubmissionGuardBlocksDoubleFire(t *testing.T) {
	ctrl := NewController(session.NewMemoryStore(), nil)

	require.True(t, ctrl.BeginSubmission("42"))
	assert.False(t, ctrl.BeginSubmission("42"))
	assert.True(t, ctrl.BeginSubmission("43"), "guard is per resource")

	ctrl.EndSubmission("42")
	assert.True(t, ctrl.BeginSubmission("42"))
}
