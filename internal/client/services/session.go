// Package services contains the session controller: the orchestration layer
// between validators, the remote API client, and the session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aloria-app/aloria-client/internal/client/api"
	"github.com/aloria-app/aloria-client/internal/client/models"
	"github.com/aloria-app/aloria-client/internal/client/session"
	"github.com/aloria-app/aloria-client/internal/client/validation"
	"github.com/aloria-app/aloria-client/internal/logging"
)

// State is the controller's position in the login/edit lifecycle.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateEditing        State = "editing"
)

var (
	// ErrActionPending is returned when a submit arrives while the same
	// action is still waiting on the network.
	ErrActionPending = errors.New("action already in progress")

	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotEditing           = errors.New("no edit in progress")
)

// ValidationError reports a pre-flight check failure for a single field.
// It never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Action names used by the in-flight guard.
const (
	actionLogin    = "login"
	actionRegister = "register"
	actionSave     = "save"
	actionRefresh  = "refresh"
	actionLogout   = "logout"
)

// actionGuard rejects a second overlapping call for the same action while
// one is pending.
type actionGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func (g *actionGuard) begin(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		g.pending = make(map[string]struct{})
	}
	if _, ok := g.pending[name]; ok {
		return ErrActionPending
	}
	g.pending[name] = struct{}{}
	return nil
}

func (g *actionGuard) end(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, name)
}

// SessionController drives the Anonymous/Authenticating/Authenticated/Editing
// state machine. It holds a transient in-memory copy of the session for the
// current surface and pushes confirmed updates to the store; the store alone
// owns the persisted state.
type SessionController struct {
	client api.Client
	store  *session.Store
	log    logging.Logger

	mu      sync.Mutex
	state   State
	current *models.Session

	actions actionGuard
}

func NewSessionController(client api.Client, store *session.Store, log logging.Logger) *SessionController {
	return &SessionController{
		client: client,
		store:  store,
		log:    log.With("component", "session"),
		state:  StateAnonymous,
	}
}

// State returns the controller's current lifecycle state.
func (c *SessionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns a copy of the in-memory session, or nil when anonymous.
func (c *SessionController) Current() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	snapshot := *c.current
	return &snapshot
}

func (c *SessionController) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *SessionController) setAuthenticated(sess *models.Session) {
	c.mu.Lock()
	c.current = sess
	c.state = StateAuthenticated
	c.mu.Unlock()
}

func (c *SessionController) clearInMemory() {
	c.mu.Lock()
	c.current = nil
	c.state = StateAnonymous
	c.mu.Unlock()
}

// Restore loads a previously persisted session at startup. A cached JWT
// whose exp claim already passed is discarded up front; tokens that do not
// parse as JWTs are treated as opaque and kept.
func (c *SessionController) Restore(ctx context.Context) error {
	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}

	if tokenExpired(sess.Token) {
		c.log.Info(ctx, "cached token expired, clearing session")
		if err := c.store.ClearAll(ctx); err != nil {
			return fmt.Errorf("clear expired session: %w", err)
		}
		return nil
	}

	c.setAuthenticated(sess)
	c.log.Debug(ctx, "session restored", "user_id", sess.UserID)
	return nil
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature. Verification is the server's job; this only avoids presenting
// a token that is certainly dead.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Register validates the form fields, creates the account, and persists the
// returned session. The full name is split on the first space into first
// and last name; the last name may be empty.
func (c *SessionController) Register(ctx context.Context, fullName, email, password string) error {
	if !validation.Name(fullName, validation.MinFullName) {
		return &ValidationError{Field: "name", Reason: "must be at least 4 letters, spaces, or '-. characters"}
	}
	if !validation.Email(email) {
		return &ValidationError{Field: "email", Reason: "must look like name@domain.tld"}
	}
	if !validation.Password(password) {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters with a digit"}
	}

	switch c.State() {
	case StateAnonymous:
	case StateAuthenticating:
		return ErrActionPending
	default:
		return ErrAlreadyAuthenticated
	}
	if err := c.actions.begin(actionRegister); err != nil {
		return err
	}
	defer c.actions.end(actionRegister)

	firstName, lastName := splitFullName(fullName)

	c.setState(StateAuthenticating)
	sess, err := c.client.Register(ctx, firstName, lastName, email, password)
	if err != nil {
		c.setState(StateAnonymous)
		c.log.Warn(ctx, "registration failed", "error", err)
		return err
	}

	if err := c.persistSession(ctx, sess); err != nil {
		c.setState(StateAnonymous)
		return err
	}
	c.log.Info(ctx, "registered", "user_id", sess.UserID)
	return nil
}

// Login authenticates with an identifier (email or username) and password,
// and persists the returned session.
func (c *SessionController) Login(ctx context.Context, identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return &ValidationError{Field: "identifier", Reason: "required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "required"}
	}

	switch c.State() {
	case StateAnonymous:
	case StateAuthenticating:
		return ErrActionPending
	default:
		return ErrAlreadyAuthenticated
	}
	if err := c.actions.begin(actionLogin); err != nil {
		return err
	}
	defer c.actions.end(actionLogin)

	c.setState(StateAuthenticating)
	sess, err := c.client.Login(ctx, identifier, password)
	if err != nil {
		c.setState(StateAnonymous)
		c.log.Warn(ctx, "login failed", "error", err)
		return err
	}

	if err := c.persistSession(ctx, sess); err != nil {
		c.setState(StateAnonymous)
		return err
	}
	c.log.Info(ctx, "logged in", "user_id", sess.UserID)
	return nil
}

// persistSession stores the confirmed session atomically, rehydrates the
// device-local avatar reference, and moves to Authenticated.
func (c *SessionController) persistSession(ctx context.Context, sess *models.Session) error {
	if err := c.store.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if ref, ok, err := c.store.AvatarRef(ctx); err == nil && ok {
		sess.AvatarRef = ref
	}
	c.setAuthenticated(sess)
	return nil
}

// RefreshProfile re-fetches the profile from the server. An auth failure
// means the cached token is dead: the session is cleared and the controller
// drops to Anonymous. A connectivity failure keeps the session and the
// cached profile untouched.
func (c *SessionController) RefreshProfile(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	token := c.current.Token
	c.mu.Unlock()

	if err := c.actions.begin(actionRefresh); err != nil {
		return err
	}
	defer c.actions.end(actionRefresh)

	profile, err := c.client.GetProfile(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			c.log.Warn(ctx, "cached token rejected, clearing session")
			if clearErr := c.store.ClearAll(ctx); clearErr != nil {
				c.log.Error(ctx, "failed to clear session", "error", clearErr)
			}
			c.clearInMemory()
		}
		return err
	}

	if err := c.store.SaveUser(ctx, profile.UserID, profile.FirstName, profile.LastName, profile.Email); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.UserID = profile.UserID
		c.current.FirstName = profile.FirstName
		c.current.LastName = profile.LastName
		c.current.Email = profile.Email
	}
	c.mu.Unlock()
	return nil
}

// StartEdit moves Authenticated -> Editing.
func (c *SessionController) StartEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated {
		return ErrNotAuthenticated
	}
	c.state = StateEditing
	return nil
}

// CancelEdit discards in-memory edits and returns to Authenticated. The
// persisted session is untouched.
func (c *SessionController) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.state = StateAuthenticated
	return nil
}

// SaveProfile submits edited first/last names. Email is not editable. On
// success the returned session is persisted atomically and the controller
// returns to Authenticated; on failure it stays in Editing so the user can
// retry or cancel.
func (c *SessionController) SaveProfile(ctx context.Context, firstName, lastName string) error {
	if !validation.Name(firstName, validation.MinNamePart) {
		return &ValidationError{Field: "first name", Reason: "must be at least 2 letters, spaces, or '-. characters"}
	}
	if lastName != "" && !validation.Name(lastName, validation.MinNamePart) {
		return &ValidationError{Field: "last name", Reason: "must be at least 2 letters, spaces, or '-. characters"}
	}

	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	token := c.current.Token
	c.mu.Unlock()

	if err := c.actions.begin(actionSave); err != nil {
		return err
	}
	defer c.actions.end(actionSave)

	sess, err := c.client.UpdateProfile(ctx, token, firstName, lastName)
	if err != nil {
		c.log.Warn(ctx, "profile update failed", "error", err)
		return err
	}

	if err := c.persistSession(ctx, sess); err != nil {
		return err
	}
	c.log.Info(ctx, "profile updated", "user_id", sess.UserID)
	return nil
}

// SetAvatar stores a device-local avatar reference. It is cosmetic state:
// never uploaded, wiped together with the session.
func (c *SessionController) SetAvatar(ctx context.Context, ref string) error {
	c.mu.Lock()
	if c.state != StateAuthenticated && c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	c.mu.Unlock()

	if err := c.store.SaveAvatarRef(ctx, ref); err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.AvatarRef = ref
	}
	c.mu.Unlock()
	return nil
}

// Logout clears the local session unconditionally. The remote logout call
// is best-effort: its failure is logged and swallowed. Calling Logout while
// already anonymous is a no-op that leaves the store cleared.
func (c *SessionController) Logout(ctx context.Context) error {
	if err := c.actions.begin(actionLogout); err != nil {
		return err
	}
	defer c.actions.end(actionLogout)

	c.mu.Lock()
	sess := c.current
	c.mu.Unlock()

	if sess.Authenticated() {
		if err := c.client.Logout(ctx, sess.Token); err != nil {
			c.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	if err := c.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.clearInMemory()
	c.log.Info(ctx, "logged out")
	return nil
}

// splitFullName splits a combined full-name field on the first space.
func splitFullName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	parts := strings.SplitN(fullName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
