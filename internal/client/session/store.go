// Package session persists the field client's authentication state: one
// bearer token and the serialized profile of the user it belongs to. The two
// are always written and cleared as a pair; no reader can ever observe a
// token without its user or vice versa.
package session

import "encoding/json"

// Session holds the current authentication token and user profile.
// The profile is kept as the raw JSON the server sent; the client never
// depends on its internal shape.
type Session struct {
	Token string
	User  json.RawMessage
}

// Store is the injectable session persistence abstraction. Implementations
// must treat read failures as "no session" and never return a partially
// populated Session.
type Store interface {
	// Save writes token and user together, overwriting any prior session.
	Save(token string, user json.RawMessage) error

	// Clear removes both entries. Clearing an empty store succeeds.
	Clear() error

	// Current returns the session if both token and user are present.
	Current() (Session, bool)

	// IsAuthenticated reports whether a token is present. It does not
	// validate freshness or signature; presence is the only client-side
	// check.
	IsAuthenticated() bool
}
