package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"versenest/models"
)

// Keys used inside the scs session data. Nothing outside this file reads or
// writes them.
const (
	cookieTokenKey   = "versenest:token"
	cookieRefreshKey = "versenest:refresh"
	cookieUserKey    = "versenest:user"
)

// CookieStorage persists session state inside an scs cookie session, the
// server-side analog of the browser's local storage. The context passed to
// each call must belong to a request wrapped by the manager's LoadAndSave
// middleware.
type CookieStorage struct {
	Manager *scs.SessionManager
}

var _ Storage = (*CookieStorage)(nil)

// Save implements Storage.
func (c *CookieStorage) Save(ctx context.Context, credentials models.Credentials, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cookie storage: marshal user: %w", err)
	}

	if err := c.Manager.RenewToken(ctx); err != nil {
		return fmt.Errorf("cookie storage: renew session token: %w", err)
	}
	c.Manager.Put(ctx, cookieTokenKey, credentials.Token)
	c.Manager.Put(ctx, cookieRefreshKey, credentials.RefreshToken)
	c.Manager.Put(ctx, cookieUserKey, string(raw))
	return nil
}

// Load implements Storage.
func (c *CookieStorage) Load(ctx context.Context) (models.Credentials, *models.User, error) {
	token := c.Manager.GetString(ctx, cookieTokenKey)
	rawUser := c.Manager.GetString(ctx, cookieUserKey)
	if token == "" || rawUser == "" {
		return models.Credentials{}, nil, nil
	}

	user := &models.User{}
	if err := json.Unmarshal([]byte(rawUser), user); err != nil {
		return models.Credentials{}, nil, fmt.Errorf("cookie storage: unmarshal user: %w", err)
	}

	return models.Credentials{
		Token:        token,
		RefreshToken: c.Manager.GetString(ctx, cookieRefreshKey),
	}, user, nil
}

// Clear implements Storage.
func (c *CookieStorage) Clear(ctx context.Context) error {
	c.Manager.Remove(ctx, cookieTokenKey)
	c.Manager.Remove(ctx, cookieRefreshKey)
	c.Manager.Remove(ctx, cookieUserKey)
	return nil
}
