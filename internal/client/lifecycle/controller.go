// Package lifecycle orchestrates the client's session state machine:
// login persists the session, logout clears it, and a session-expired
// signal from the transport flips the state back to unauthenticated.
package lifecycle

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"nirman-fieldworks/internal/client/api"
	"nirman-fieldworks/internal/client/session"
	"nirman-fieldworks/internal/client/transport"
)

// State is the controller's authentication state. There is no transitional
// state; a transition completes the moment the store write or clear does.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Validation errors rejected before any request is sent.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("a valid email address is required")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Controller drives the two-state session machine.
type Controller struct {
	mu       sync.Mutex
	store    session.Store
	auth     *api.AuthClient
	state    State
	inFlight map[string]struct{}
}

// NewController creates a controller whose initial state comes from the
// session store.
func NewController(store session.Store, auth *api.AuthClient) *Controller {
	state := Unauthenticated
	if store.IsAuthenticated() {
		state = Authenticated
	}
	return &Controller{
		store:    store,
		auth:     auth,
		state:    state,
		inFlight: make(map[string]struct{}),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Login validates the credentials, performs the login call and, on success,
// persists the session before transitioning to Authenticated.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}

	result := c.auth.Login(ctx, api.Credentials{Email: email, Password: password})
	if !result.Success {
		if result.Err != nil {
			return result.Err
		}
		return errors.New(result.Error)
	}

	if err := c.store.Save(result.Token, result.User); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = Authenticated
	c.mu.Unlock()
	return nil
}

// Logout clears the session and transitions to Unauthenticated. Logging out
// while already logged out succeeds.
func (c *Controller) Logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.mu.Lock()
	c.state = Unauthenticated
	c.mu.Unlock()
	return nil
}

// HandleError reacts to errors surfaced by API calls. On a session-expired
// signal the store has already been cleared by the transport; the controller
// re-polls it so the state reflects reality before the next protected
// action. Returns true when the session was invalidated.
func (c *Controller) HandleError(err error) bool {
	if err == nil || !errors.Is(err, transport.ErrSessionExpired) {
		return false
	}
	c.Refresh()
	return true
}

// Refresh re-derives the state from the store.
func (c *Controller) Refresh() {
	authenticated := c.store.IsAuthenticated()
	c.mu.Lock()
	if authenticated {
		c.state = Authenticated
	} else {
		c.state = Unauthenticated
	}
	c.mu.Unlock()
}

// CurrentUser returns the stored user profile, if any.
func (c *Controller) CurrentUser() (session.Session, bool) {
	return c.store.Current()
}

// BeginSubmission marks a resource as having a submission in flight.
// Returns false if one is already running, guarding against double-taps
// firing the same upload twice.
func (c *Controller) BeginSubmission(resourceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[resourceID]; busy {
		return false
	}
	c.inFlight[resourceID] = struct{}{}
	return true
}

// EndSubmission releases the in-flight guard for a resource.
func (c *Controller) EndSubmission(resourceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, resourceID)
}
