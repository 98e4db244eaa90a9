// Package api holds the typed clients the field app calls: authentication
// and work-proposal operations over the shared transport.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nirman-fieldworks/internal/client/transport"
)

// Credentials is transient login input. Never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the one uniform shape login callers branch on. Transport
// errors never escape as panics or raw errors; Success is false and Error
// holds the display message.
type LoginResult struct {
	Success bool
	Token   string
	User    json.RawMessage
	Raw     json.RawMessage
	Error   string
	Err     error
}

// loginEnvelope tolerates both response nestings the backend has shipped:
// {data:{token,user}} and {token,user} at the top level.
type loginEnvelope struct {
	Data *struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	} `json:"data"`
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// AuthClient performs login and registration.
type AuthClient struct {
	t *transport.Transport
}

// NewAuthClient creates an auth client on the shared transport.
func NewAuthClient(t *transport.Transport) *AuthClient {
	return &AuthClient{t: t}
}

// Login sends the credential pair and normalizes the server response.
// A 200 with a missing token or user is a failure: transport-level success
// alone is not proof of a usable session. Login does not write the session
// store; that is the lifecycle controller's job.
func (c *AuthClient) Login(ctx context.Context, creds Credentials) LoginResult {
	var raw json.RawMessage
	if err := c.t.Post(ctx, "/auth/login", creds, &raw); err != nil {
		return LoginResult{Success: false, Error: loginError(err), Err: err}
	}

	var envelope loginEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return LoginResult{Success: false, Error: "invalid response from server", Err: err, Raw: raw}
	}

	token, user := envelope.Token, envelope.User
	if envelope.Data != nil {
		if envelope.Data.Token != "" {
			token = envelope.Data.Token
		}
		if len(envelope.Data.User) > 0 {
			user = envelope.Data.User
		}
	}

	if token == "" || !hasJSONValue(user) {
		err := errors.New("invalid response from server - no token received")
		return LoginResult{Success: false, Error: err.Error(), Err: err, Raw: raw}
	}

	return LoginResult{Success: true, Token: token, User: user, Raw: raw}
}

// Register creates an account. The success payload is passed through as-is;
// on failure the server-provided message takes priority.
func (c *AuthClient) Register(ctx context.Context, userData interface{}) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.t.Post(ctx, "/auth/register", userData, &raw); err != nil {
		return nil, opError(err, "Registration failed")
	}
	return raw, nil
}

// loginError picks the display message for a failed login call.
func loginError(err error) string {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var netErr *transport.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return "Login failed"
}

// hasJSONValue reports whether raw holds an actual value rather than
// nothing or JSON null.
func hasJSONValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// opError normalizes a failure into one Error carrying, in priority order,
// the server-supplied message or the operation-specific fallback. The
// original error chain stays wrapped so callers can still match
// transport.ErrSessionExpired and log the raw body.
func opError(err error, fallback string) error {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return err
	}
	var netErr *transport.NetworkError
	if errors.As(err, &netErr) {
		return err
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
