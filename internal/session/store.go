// Package session owns the client's belief about the current authentication
// state: which user is signed in, the token material backing it, and the
// persisted copy that survives a reload. The Store is constructed explicitly
// with its identity client and storage so tests can build isolated instances.
package session

import (
	"context"
	"fmt"
	"sync"

	"versenest/internal/identity"
	applog "versenest/internal/log"
	"versenest/models"
)

// RevalidateMode controls what Initialize does with a cached token.
type RevalidateMode string

const (
	// RevalidateOff trusts cached state until the next identity call.
	RevalidateOff RevalidateMode = "off"
	// RevalidateBackground trusts cached state immediately and checks the
	// token asynchronously, clearing the session if it proves invalid.
	RevalidateBackground RevalidateMode = "background"
	// RevalidateBlocking checks the token before Initialize returns.
	RevalidateBlocking RevalidateMode = "blocking"
)

// Config tunes store behavior.
type Config struct {
	Revalidate RevalidateMode
}

// Store holds one client's session state. All exported methods are safe for
// concurrent use; the last settling identity call wins, which is acceptable
// because the store, not any panel, is the source of truth.
type Store struct {
	client  identity.Client
	storage Storage
	config  Config

	mu          sync.Mutex
	user        *models.User
	credentials models.Credentials
	loading     bool
	message     string
	initialized bool
}

// New builds a Store around the given identity client and persisted storage.
func New(client identity.Client, storage Storage, cfg Config) *Store {
	if cfg.Revalidate == "" {
		cfg.Revalidate = RevalidateBackground
	}
	return &Store{
		client:  client,
		storage: storage,
		config:  cfg,
	}
}

// Initialize rehydrates session state from persisted storage. Cached state is
// trusted optimistically so first paint never blocks on the network; token
// revalidation follows the configured mode. Storage failures degrade
// gracefully to an unauthenticated session and are never fatal.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.mu.Unlock()

	credentials, user, err := s.storage.Load(ctx)
	if err != nil {
		applog.Error(ctx, "failed to read persisted session, continuing unauthenticated", "error", err)
		return nil
	}
	if !credentials.Present() || user == nil {
		return nil
	}

	s.mu.Lock()
	s.user = user
	s.credentials = credentials
	s.mu.Unlock()

	switch s.config.Revalidate {
	case RevalidateBlocking:
		s.revalidate(ctx, credentials.Token)
	case RevalidateBackground:
		go s.revalidate(context.WithoutCancel(ctx), credentials.Token)
	}

	return nil
}

// revalidate drops the session when the identity service reports the token
// invalid. Transport failures keep the cached state: an offline client still
// gets to see its cached session.
func (s *Store) revalidate(ctx context.Context, token string) {
	valid, err := s.client.ValidateToken(ctx, token)
	if err != nil {
		applog.Debug(ctx, "token revalidation inconclusive, keeping cached session", "error", err)
		return
	}
	if valid {
		return
	}

	applog.Info(ctx, "persisted token no longer valid, clearing session")
	s.clear(ctx)
}

// Login authenticates against the identity service. The loading flag is
// released on every exit path; the error slot is cleared at the start of the
// attempt and holds a presentable message on failure.
func (s *Store) Login(ctx context.Context, input identity.LoginInput) (*models.User, error) {
	s.begin()
	defer s.finish()

	grant, err := s.client.Login(ctx, input)
	if err != nil {
		s.fail(err)
		return nil, fmt.Errorf("session login: %w", err)
	}

	s.adopt(ctx, grant)
	return grant.User, nil
}

// Signup registers a new account under the same contract as Login.
func (s *Store) Signup(ctx context.Context, input identity.RegisterInput) (*models.User, error) {
	s.begin()
	defer s.finish()

	grant, err := s.client.Register(ctx, input)
	if err != nil {
		s.fail(err)
		return nil, fmt.Errorf("session signup: %w", err)
	}

	s.adopt(ctx, grant)
	return grant.User, nil
}

// Logout clears in-memory and persisted state. The remote notification is
// best effort: local clearing proceeds even when it fails.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.credentials.Token
	s.mu.Unlock()

	if token != "" {
		if err := s.client.Logout(ctx, token); err != nil {
			applog.Debug(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	s.clear(ctx)
}

// UpdateProfile applies a partial update remotely and adopts the confirmed
// record. On failure the previous user value stays intact; unconfirmed fields
// are never written.
func (s *Store) UpdateProfile(ctx context.Context, update identity.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	token := s.credentials.Token
	credentials := s.credentials
	s.mu.Unlock()

	if token == "" {
		return nil, fmt.Errorf("session update profile: not authenticated")
	}

	user, err := s.client.UpdateProfile(ctx, token, update)
	if err != nil {
		s.fail(err)
		return nil, fmt.Errorf("session update profile: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.message = ""
	s.mu.Unlock()

	s.persist(ctx, credentials, user)
	return user, nil
}

// User returns the authenticated user, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Credentials returns the current token material.
func (s *Store) Credentials() models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentials
}

// IsAuthenticated reports whether a user is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.credentials.Present()
}

// IsLoading reports whether an identity call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Message returns the last surfaced error message, empty after a successful
// attempt or a fresh store.
func (s *Store) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.message = ""
	s.mu.Unlock()
}

func (s *Store) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.message = identity.Presentable(err)
	s.mu.Unlock()
}

func (s *Store) adopt(ctx context.Context, grant *identity.Grant) {
	s.mu.Lock()
	s.user = grant.User
	s.credentials = grant.Credentials
	s.message = ""
	s.mu.Unlock()

	s.persist(ctx, grant.Credentials, grant.User)
}

// persist writes both storage keys together. A write failure only costs the
// session its reload survival, so it is logged and swallowed.
func (s *Store) persist(ctx context.Context, credentials models.Credentials, user *models.User) {
	if err := s.storage.Save(ctx, credentials, user); err != nil {
		applog.Error(ctx, "failed to persist session, state will not survive reload", "error", err)
	}
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.credentials = models.Credentials{}
	s.message = ""
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		applog.Error(ctx, "failed to clear persisted session", "error", err)
	}
}
