package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"versenest/models"
)

const (
	defaultTimeout = 10 * time.Second
	clientAgent    = "versenest-web/1.0"

	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerUserAgent     = "User-Agent"
	contentTypeJSON     = "application/json"
)

// Config describes how the HTTP identity client should be initialised.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient talks to a remote identity service over JSON/HTTP. It performs
// no retries; every failure surfaces to the caller immediately.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient builds a client for the identity service at cfg.BaseURL.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("identity: base URL must not be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

type grantResponse struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

// Login implements Client.
func (c *HTTPClient) Login(ctx context.Context, input LoginInput) (*Grant, error) {
	var resp grantResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", input, &resp); err != nil {
		return nil, err
	}
	return grantFromResponse(resp)
}

// Register implements Client.
func (c *HTTPClient) Register(ctx context.Context, input RegisterInput) (*Grant, error) {
	var resp grantResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", input, &resp); err != nil {
		return nil, err
	}
	return grantFromResponse(resp)
}

// ValidateToken implements Client.
func (c *HTTPClient) ValidateToken(ctx context.Context, token string) (bool, error) {
	var resp validateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/validate", "", validateRequest{Token: token}, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Logout implements Client.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// UpdateProfile implements Client.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	var resp userResponse
	if err := c.doRequest(ctx, http.MethodPut, "/users/me", token, update, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &Error{Code: CodeValidationRejected, Message: "identity service returned no user"}
	}
	return resp.User, nil
}

// doRequest performs one JSON round-trip and maps failures onto the error
// taxonomy.
func (c *HTTPClient) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("identity: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}

	req.Header.Set(headerUserAgent, clientAgent)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("identity: parse response: %w", err)
		}
	}

	return nil
}

func grantFromResponse(resp grantResponse) (*Grant, error) {
	if resp.User == nil || resp.Token == "" {
		return nil, &Error{Code: CodeValidationRejected, Message: "identity service returned an incomplete grant"}
	}
	return &Grant{
		User: resp.User,
		Credentials: models.Credentials{
			Token:        resp.Token,
			RefreshToken: resp.RefreshToken,
		},
	}, nil
}
