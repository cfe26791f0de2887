// Package local is an in-process identity backend. It keeps accounts in the
// configured gorm store and issues HMAC-signed JWTs, which makes development
// and tests independent of a remote identity deployment while exercising the
// same Client contract and wire protocol.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"versenest/internal/identity"
	"versenest/models"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config tunes the local service. Zero values select sane defaults; the
// secret is the only field production-like setups must provide.
type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Service implements identity.Client on top of a gorm account store.
type Service struct {
	db         *gorm.DB
	secret     []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	revoked map[string]struct{}
}

// New builds a Service over db.
func New(db *gorm.DB, cfg Config) (*Service, error) {
	if db == nil {
		return nil, errors.New("local: database handle must not be nil")
	}

	secret := cfg.Secret
	if len(secret) == 0 {
		secret = []byte(uuid.NewString())
	}

	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		db:         db,
		secret:     secret,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
		now:        now,
		revoked:    map[string]struct{}{},
	}, nil
}

// Login implements identity.Client.
func (s *Service) Login(ctx context.Context, input identity.LoginInput) (*identity.Grant, error) {
	email := normalizeEmail(input.Email)

	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("local: look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		return nil, invalidCredentials()
	}

	// A writer signing in through the reader panel (or vice versa) is
	// rejected the same way a wrong password is, so the form never leaks
	// which roles an email is registered under.
	if input.Role != "" && input.Role != account.Role {
		return nil, invalidCredentials()
	}

	return s.grantFor(account)
}

// Register implements identity.Client.
func (s *Service) Register(ctx context.Context, input identity.RegisterInput) (*identity.Grant, error) {
	if !input.Role.Valid() {
		return nil, validationRejected(fmt.Sprintf("unknown role %q", input.Role))
	}
	if err := checkSelections(input.Role, input.Genres, input.PreferredGenres, input.MoodPreferences); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, validationRejected("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("local: hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		Role:         input.Role,
	}

	switch input.Role {
	case models.RoleWriter:
		account.PenName = strings.TrimSpace(input.PenName)
		account.Bio = strings.TrimSpace(input.Bio)
		account.Genres = append([]string(nil), input.Genres...)
	case models.RoleReader:
		account.PreferredGenres = append([]string(nil), input.PreferredGenres...)
		account.MoodPreferences = append([]string(nil), input.MoodPreferences...)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return duplicateAccount()
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		var idErr *identity.Error
		if errors.As(err, &idErr) {
			return nil, idErr
		}
		return nil, fmt.Errorf("local: create account: %w", err)
	}

	return s.grantFor(account)
}

// ValidateToken implements identity.Client. Expired, malformed, and revoked
// tokens report invalid rather than erroring; only store failures surface as
// errors so callers can distinguish "signed out" from "cannot tell".
func (s *Service) ValidateToken(ctx context.Context, token string) (bool, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return false, nil
	}

	if s.isRevoked(claims.ID) {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", claims.Subject).Count(&count).Error; err != nil {
		return false, fmt.Errorf("local: look up account: %w", err)
	}

	return count > 0, nil
}

// Logout implements identity.Client. The token's identifier joins the
// revocation set; tokens that no longer parse have nothing to revoke.
func (s *Service) Logout(_ context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	s.revoked[claims.ID] = struct{}{}
	s.mu.Unlock()

	return nil
}

// UpdateProfile implements identity.Client.
func (s *Service) UpdateProfile(ctx context.Context, token string, update identity.ProfileUpdate) (*models.User, error) {
	account, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := checkSelections(account.Role, update.Genres, update.PreferredGenres, update.MoodPreferences); err != nil {
		return nil, err
	}

	if update.Name != nil {
		account.Name = strings.TrimSpace(*update.Name)
	}

	switch account.Role {
	case models.RoleWriter:
		if update.PenName != nil {
			account.PenName = strings.TrimSpace(*update.PenName)
		}
		if update.Bio != nil {
			account.Bio = strings.TrimSpace(*update.Bio)
		}
		if update.Genres != nil {
			account.Genres = append([]string(nil), update.Genres...)
		}
	case models.RoleReader:
		if update.PreferredGenres != nil {
			account.PreferredGenres = append([]string(nil), update.PreferredGenres...)
		}
		if update.MoodPreferences != nil {
			account.MoodPreferences = append([]string(nil), update.MoodPreferences...)
		}
	}

	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return nil, fmt.Errorf("local: save account: %w", err)
	}

	user := account.User()
	return &user, nil
}

func (s *Service) authenticate(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.parseToken(token)
	if err != nil || s.isRevoked(claims.ID) {
		return nil, unauthorized()
	}

	var account models.Account
	lookupErr := s.db.WithContext(ctx).Where("id = ?", claims.Subject).First(&account).Error
	if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return nil, unauthorized()
	}
	if lookupErr != nil {
		return nil, fmt.Errorf("local: look up account: %w", lookupErr)
	}

	return &account, nil
}

func (s *Service) grantFor(account models.Account) (*identity.Grant, error) {
	token, err := s.signToken(account.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(account.ID, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	user := account.User()
	return &identity.Grant{
		User: &user,
		Credentials: models.Credentials{
			Token:        token,
			RefreshToken: refresh,
		},
	}, nil
}

func (s *Service) signToken(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("local: sign token: %w", err)
	}

	return signed, nil
}

func (s *Service) parseToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (s *Service) isRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok
}

func checkSelections(role models.Role, genres, preferredGenres, moods []string) error {
	if role == models.RoleWriter {
		for _, genre := range genres {
			if !models.ValidGenre(genre) {
				return validationRejected(fmt.Sprintf("unknown genre %q", genre))
			}
		}
		return nil
	}

	for _, genre := range preferredGenres {
		if !models.ValidGenre(genre) {
			return validationRejected(fmt.Sprintf("unknown genre %q", genre))
		}
	}
	for _, mood := range moods {
		if !models.ValidMood(mood) {
			return validationRejected(fmt.Sprintf("unknown mood %q", mood))
		}
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() *identity.Error {
	return &identity.Error{
		StatusCode: http.StatusUnauthorized,
		Code:       identity.CodeInvalidCredentials,
		Message:    "invalid email or password",
	}
}

func duplicateAccount() *identity.Error {
	return &identity.Error{
		StatusCode: http.StatusConflict,
		Code:       identity.CodeDuplicateAccount,
		Message:    "an account with this email already exists",
	}
}

func validationRejected(message string) *identity.Error {
	return &identity.Error{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       identity.CodeValidationRejected,
		Message:    message,
	}
}

func unauthorized() *identity.Error {
	return &identity.Error{
		StatusCode: http.StatusUnauthorized,
		Code:       identity.CodeInvalidCredentials,
		Message:    "token is not valid",
	}
}
