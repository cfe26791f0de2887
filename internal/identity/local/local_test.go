package local

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"versenest/internal/identity"
	"versenest/models"
)

var dbCounter atomic.Int64

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:local_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	service, err := New(db, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func writerInput(email string) identity.RegisterInput {
	return identity.RegisterInput{
		Email:    email,
		Password: "S3cret!pass",
		Name:     "Wren Alder",
		Role:     models.RoleWriter,
		PenName:  "Nightingale",
		Genres:   []string{"lyrical"},
	}
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	ctx := context.Background()

	grant, err := service.Register(ctx, writerInput("Wren@Versenest.App"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if grant.User.Email != "wren@versenest.app" {
		t.Fatalf("email not normalized: %q", grant.User.Email)
	}
	if grant.User.Writer == nil || grant.User.Writer.PenName != "Nightingale" {
		t.Fatal("expected writer profile on the grant")
	}
	if grant.User.Reader != nil {
		t.Fatal("writer grant must not carry a reader profile")
	}
	if !grant.Credentials.Present() {
		t.Fatal("expected a token on the grant")
	}

	login, err := service.Login(ctx, identity.LoginInput{
		Email:    "wren@versenest.app",
		Password: "S3cret!pass",
		Role:     models.RoleWriter,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != grant.User.ID {
		t.Fatal("login returned a different account")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	ctx := context.Background()

	if _, err := service.Register(ctx, writerInput("wren@versenest.app")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := service.Register(ctx, writerInput("wren@versenest.app"))
	if !identity.IsDuplicateAccount(err) {
		t.Fatalf("expected duplicate-account error, got %v", err)
	}
}

func TestRegisterRejectsUnknownGenre(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	input := writerInput("wren@versenest.app")
	input.Genres = []string{"heavy-metal"}

	_, err := service.Register(context.Background(), input)
	if !identity.IsValidationRejected(err) {
		t.Fatalf("expected validation-rejected error, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	ctx := context.Background()
	if _, err := service.Register(ctx, writerInput("wren@versenest.app")); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name  string
		input identity.LoginInput
	}{
		{"wrong password", identity.LoginInput{Email: "wren@versenest.app", Password: "nope", Role: models.RoleWriter}},
		{"unknown email", identity.LoginInput{Email: "ghost@versenest.app", Password: "S3cret!pass", Role: models.RoleWriter}},
		{"role mismatch", identity.LoginInput{Email: "wren@versenest.app", Password: "S3cret!pass", Role: models.RoleReader}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Login(ctx, tc.input)
			if !identity.IsInvalidCredentials(err) {
				t.Fatalf("expected invalid-credentials error, got %v", err)
			}
		})
	}
}

func TestValidateTokenLifecycle(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(t, Config{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		Now:      func() time.Time { return current },
	})
	ctx := context.Background()

	grant, err := service.Register(ctx, writerInput("wren@versenest.app"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token := grant.Credentials.Token

	if valid, err := service.ValidateToken(ctx, token); err != nil || !valid {
		t.Fatalf("expected fresh token to validate, valid=%t err=%v", valid, err)
	}

	if valid, _ := service.ValidateToken(ctx, "not-a-token"); valid {
		t.Fatal("garbage token must not validate")
	}

	if err := service.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if valid, _ := service.ValidateToken(ctx, token); valid {
		t.Fatal("revoked token must not validate")
	}

	fresh, err := service.Login(ctx, identity.LoginInput{
		Email:    "wren@versenest.app",
		Password: "S3cret!pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	current = current.Add(2 * time.Hour)
	if valid, _ := service.ValidateToken(ctx, fresh.Credentials.Token); valid {
		t.Fatal("expired token must not validate")
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	ctx := context.Background()

	grant, err := service.Register(ctx, writerInput("wren@versenest.app"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bio := "Coastlines and weather."
	user, err := service.UpdateProfile(ctx, grant.Credentials.Token, identity.ProfileUpdate{
		Bio:    &bio,
		Genres: []string{"haiku", "free-verse"},
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Writer == nil || user.Writer.Bio != bio {
		t.Fatalf("bio not applied: %+v", user.Writer)
	}
	if len(user.Writer.Genres) != 2 {
		t.Fatalf("genres not applied: %v", user.Writer.Genres)
	}
	if user.Writer.PenName != "Nightingale" {
		t.Fatal("untouched fields must survive a partial update")
	}

	if _, err := service.UpdateProfile(ctx, "bogus", identity.ProfileUpdate{Bio: &bio}); !identity.IsInvalidCredentials(err) {
		t.Fatalf("expected invalid-credentials for a bogus token, got %v", err)
	}

	_, err = service.UpdateProfile(ctx, grant.Credentials.Token, identity.ProfileUpdate{
		Genres: []string{"heavy-metal"},
	})
	if !identity.IsValidationRejected(err) {
		t.Fatalf("expected validation-rejected for an unknown genre, got %v", err)
	}
}

// The HTTP facade and the HTTP client speak the same protocol; registering
// through the client against the served facade must behave like calling the
// service directly.
func TestHandlerInteropWithHTTPClient(t *testing.T) {
	t.Parallel()

	service := newTestService(t, Config{})
	server := httptest.NewServer(Handler(service))
	defer server.Close()

	client, err := identity.NewHTTPClient(identity.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new http client: %v", err)
	}
	ctx := context.Background()

	grant, err := client.Register(ctx, identity.RegisterInput{
		Email:           "sage@versenest.app",
		Password:        "S3cret!pass",
		Name:            "Sage Mori",
		Role:            models.RoleReader,
		PreferredGenres: []string{"haiku"},
		MoodPreferences: []string{"reflective"},
	})
	if err != nil {
		t.Fatalf("register through client: %v", err)
	}
	if grant.User.Reader == nil {
		t.Fatal("expected reader profile over the wire")
	}

	valid, err := client.ValidateToken(ctx, grant.Credentials.Token)
	if err != nil || !valid {
		t.Fatalf("validate through client, valid=%t err=%v", valid, err)
	}

	_, err = client.Login(ctx, identity.LoginInput{Email: "sage@versenest.app", Password: "wrong"})
	if !identity.IsInvalidCredentials(err) {
		t.Fatalf("expected invalid-credentials through the wire, got %v", err)
	}

	if err := client.Logout(ctx, grant.Credentials.Token); err != nil {
		t.Fatalf("logout through client: %v", err)
	}
	valid, err = client.ValidateToken(ctx, grant.Credentials.Token)
	if err != nil {
		t.Fatalf("validate after logout: %v", err)
	}
	if valid {
		t.Fatal("token must be revoked after logout")
	}
}
