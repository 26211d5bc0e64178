package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"camerastore/internal/transport"

	"github.com/google/uuid"
)

// SessionState is the authentication state of the client.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

const sessionKey = "current"

// storedSession is the persisted part of a session.
type storedSession struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	User         transport.UserProfile `json:"user"`
}

// Session tracks who is signed in. A restart restores the persisted session;
// any 401 from the server drops it back to anonymous.
type Session struct {
	api   *APIClient
	store *Store

	mu           sync.RWMutex
	state        SessionState
	user         *transport.UserProfile
	refreshToken string
}

// NewSession builds a session, restores any persisted sign-in and registers
// the 401 invalidation hook on the API client.
func NewSession(api *APIClient, store *Store) *Session {
	s := &Session{
		api:   api,
		store: store,
		state: StateAnonymous,
	}
	api.OnUnauthorized(s.invalidate)
	s.restore()
	return s
}

func (s *Session) restore() {
	raw, err := s.store.get(sessionBucket, sessionKey)
	if err != nil || raw == nil {
		return
	}

	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.store.delete(sessionBucket, sessionKey)
		return
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &stored.User
	s.refreshToken = stored.RefreshToken
	s.mu.Unlock()
	s.api.SetToken(stored.AccessToken)
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user profile, or nil when anonymous.
func (s *Session) User() *transport.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserID returns the signed-in user's ID, or uuid.Nil when anonymous.
func (s *Session) UserID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(s.user.ID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsAdmin reports whether the signed-in user has the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == "admin"
}

// SignIn authenticates against the server and persists the session. When
// the server accepts the credentials but the local cache write fails, the
// in-memory session is still established: the profile is returned alongside
// the caching error, and the sign-in only lasts until the process exits.
func (s *Session) SignIn(ctx context.Context, email, password string) (*transport.UserProfile, error) {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return nil, err
	}

	if err := s.establish(resp); err != nil {
		return &resp.User, fmt.Errorf("session not cached: %w", err)
	}
	return &resp.User, nil
}

// SignUp registers a new account and then signs in with the same
// credentials.
func (s *Session) SignUp(ctx context.Context, req transport.RegisterRequest) (*transport.UserProfile, error) {
	if _, err := s.api.Register(ctx, req); err != nil {
		return nil, err
	}
	return s.SignIn(ctx, req.Email, req.Password)
}

func (s *Session) establish(resp *transport.LoginResponse) error {
	s.api.SetToken(resp.AccessToken)

	s.mu.Lock()
	s.state = StateAuthenticated
	user := resp.User
	s.user = &user
	s.refreshToken = resp.RefreshToken
	s.mu.Unlock()

	return s.persist(resp.AccessToken, resp.RefreshToken, resp.User)
}

func (s *Session) persist(accessToken, refreshToken string, user transport.UserProfile) error {
	raw, err := json.Marshal(storedSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.store.put(sessionBucket, sessionKey, raw)
}

// SignOut clears the local session unconditionally. The server-side token
// revocation is best effort: a failed request never leaves the client
// signed in.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	var serverErr error
	if refreshToken != "" {
		serverErr = s.api.Logout(ctx, refreshToken)
	}

	s.invalidate()

	if serverErr != nil {
		return fmt.Errorf("server logout failed: %w", serverErr)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	user := s.user
	s.mu.RUnlock()

	if refreshToken == "" || user == nil {
		return ErrNotSignedIn
	}

	accessToken, err := s.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	s.api.SetToken(accessToken)
	if err := s.persist(accessToken, refreshToken, *user); err != nil {
		return fmt.Errorf("session not cached: %w", err)
	}
	return nil
}

// RefreshProfile re-fetches the signed-in user's profile from the server.
func (s *Session) RefreshProfile(ctx context.Context) (*transport.UserProfile, error) {
	if s.State() != StateAuthenticated {
		return nil, ErrNotSignedIn
	}

	profile, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = profile
	refreshToken := s.refreshToken
	s.mu.Unlock()

	if err := s.persist(s.api.currentToken(), refreshToken, *profile); err != nil {
		return profile, fmt.Errorf("session not cached: %w", err)
	}
	return profile, nil
}

// invalidate drops the session back to anonymous and wipes persisted state.
func (s *Session) invalidate() {
	s.api.SetToken("")

	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.refreshToken = ""
	s.mu.Unlock()

	s.store.delete(sessionBucket, sessionKey)
}
