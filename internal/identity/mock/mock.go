// Package mock provides a scriptable identity client for tests. Each
// operation delegates to an optional function field and counts its calls;
// unscripted operations succeed with predictable canned data.
package mock

import (
	"context"
	"sync"
	"time"

	"versenest/internal/identity"
	"versenest/models"
)

// Client implements identity.Client with per-operation hooks.
type Client struct {
	mu sync.Mutex

	LoginFunc         func(ctx context.Context, input identity.LoginInput) (*identity.Grant, error)
	RegisterFunc      func(ctx context.Context, input identity.RegisterInput) (*identity.Grant, error)
	ValidateTokenFunc func(ctx context.Context, token string) (bool, error)
	LogoutFunc        func(ctx context.Context, token string) error
	UpdateProfileFunc func(ctx context.Context, token string, update identity.ProfileUpdate) (*models.User, error)

	LoginCalls    int
	RegisterCalls int
	ValidateCalls int
	LogoutCalls   int
	UpdateCalls   int
}

var _ identity.Client = (*Client)(nil)

// Grant builds the canned grant returned by unscripted Login and Register
// calls.
func Grant(email string, role models.Role) *identity.Grant {
	user := &models.User{
		ID:        "mock-user",
		Email:     email,
		Name:      "Mock User",
		Role:      role,
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	switch role {
	case models.RoleWriter:
		user.Writer = &models.WriterProfile{Genres: []string{"free-verse"}}
	case models.RoleReader:
		user.Reader = &models.ReaderProfile{PreferredGenres: []string{"haiku"}}
	}
	return &identity.Grant{
		User: user,
		Credentials: models.Credentials{
			Token:        "mock-token",
			RefreshToken: "mock-refresh-token",
		},
	}
}

func (c *Client) Login(ctx context.Context, input identity.LoginInput) (*identity.Grant, error) {
	c.mu.Lock()
	c.LoginCalls++
	fn := c.LoginFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, input)
	}
	return Grant(input.Email, input.Role), nil
}

func (c *Client) Register(ctx context.Context, input identity.RegisterInput) (*identity.Grant, error) {
	c.mu.Lock()
	c.RegisterCalls++
	fn := c.RegisterFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, input)
	}
	return Grant(input.Email, input.Role), nil
}

func (c *Client) ValidateToken(ctx context.Context, token string) (bool, error) {
	c.mu.Lock()
	c.ValidateCalls++
	fn := c.ValidateTokenFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	return token != "", nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	c.mu.Lock()
	c.LogoutCalls++
	fn := c.LogoutFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	return nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update identity.ProfileUpdate) (*models.User, error) {
	c.mu.Lock()
	c.UpdateCalls++
	fn := c.UpdateProfileFunc
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, update)
	}
	return Grant("mock@versenest.app", models.RoleReader).User, nil
}
