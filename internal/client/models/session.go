// Package models holds the client-side data types shared between the API
// client, the session store, and the controller.
package models

// Session is the locally cached identity of the authenticated user plus the
// bearer token issued by the server. AvatarRef is a device-local resource
// locator and never leaves the client.
type Session struct {
	Token     string
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	AvatarRef string
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Profile is a user record fetched from the server, without a token.
type Profile struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
}
