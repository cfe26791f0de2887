package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"versenest/internal/identity"
	"versenest/internal/identity/mock"
	"versenest/models"
)

type failingStorage struct{}

func (failingStorage) Save(context.Context, models.Credentials, *models.User) error {
	return errors.New("disk full")
}

func (failingStorage) Load(context.Context) (models.Credentials, *models.User, error) {
	return models.Credentials{}, nil, errors.New("disk unreadable")
}

func (failingStorage) Clear(context.Context) error {
	return errors.New("disk full")
}

func newTestStore(client identity.Client) (*Store, *MemoryStorage) {
	storage := NewMemoryStorage()
	return New(client, storage, Config{Revalidate: RevalidateOff}), storage
}

func TestLoginSuccessPopulatesAndPersists(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(&mock.Client{})
	user, err := store.Login(context.Background(), identity.LoginInput{
		Email:    "reader@versenest.app",
		Password: "Password1",
		Role:     models.RoleReader,
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user == nil || !store.IsAuthenticated() {
		t.Fatal("expected authenticated store after login")
	}
	if store.IsLoading() {
		t.Fatal("loading flag must be released after completion")
	}
	if store.Message() != "" {
		t.Fatalf("expected empty message, got %q", store.Message())
	}

	creds, saved, err := storage.Load(context.Background())
	if err != nil {
		t.Fatalf("storage load: %v", err)
	}
	if !creds.Present() || saved == nil || saved.Email != "reader@versenest.app" {
		t.Fatalf("expected persisted session, got creds=%+v user=%+v", creds, saved)
	}
}

func TestLoadingReleasesOnEveryOutcome(t *testing.T) {
	t.Parallel()

	outcomes := map[string]func(context.Context, identity.LoginInput) (*identity.Grant, error){
		"success": nil,
		"invalid credentials": func(context.Context, identity.LoginInput) (*identity.Grant, error) {
			return nil, &identity.Error{StatusCode: http.StatusUnauthorized, Code: identity.CodeInvalidCredentials}
		},
		"network failure": func(context.Context, identity.LoginInput) (*identity.Grant, error) {
			return nil, &identity.Error{Code: identity.CodeNetworkFailure, Message: "dial refused"}
		},
	}

	for name, loginFn := range outcomes {
		loginFn := loginFn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store, _ := newTestStore(&mock.Client{LoginFunc: loginFn})
			_, _ = store.Login(context.Background(), identity.LoginInput{
				Email:    "x@y.z",
				Password: "Password1",
				Role:     models.RoleWriter,
			})
			if store.IsLoading() {
				t.Fatal("loading flag still set after call settled")
			}
		})
	}
}

func TestLoginFailureKeepsUserAndSurfacesMessage(t *testing.T) {
	t.Parallel()

	client := &mock.Client{}
	store, _ := newTestStore(client)
	if _, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleWriter}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}
	existing := store.User()

	client.LoginFunc = func(context.Context, identity.LoginInput) (*identity.Grant, error) {
		return nil, &identity.Error{StatusCode: http.StatusUnauthorized, Code: identity.CodeInvalidCredentials}
	}
	_, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleWriter})
	if !identity.IsInvalidCredentials(err) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if store.User() != existing {
		t.Fatal("failed login must leave the previous user unchanged")
	}
	if store.Message() != "Invalid credentials. Please check your email and password." {
		t.Fatalf("unexpected message %q", store.Message())
	}
}

func TestMessageClearsOnNextAttempt(t *testing.T) {
	t.Parallel()

	client := &mock.Client{LoginFunc: func(context.Context, identity.LoginInput) (*identity.Grant, error) {
		return nil, &identity.Error{StatusCode: http.StatusUnauthorized}
	}}
	store, _ := newTestStore(client)

	_, _ = store.Login(context.Background(), identity.LoginInput{Email: "a@b.c"})
	if store.Message() == "" {
		t.Fatal("expected message after failure")
	}

	client.LoginFunc = nil
	if _, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if store.Message() != "" {
		t.Fatalf("expected cleared message, got %q", store.Message())
	}
}

func TestSignupPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(&mock.Client{})
	original, err := store.Signup(context.Background(), identity.RegisterInput{
		Email: "writer@versenest.app",
		Name:  "Writer",
		Role:  models.RoleWriter,
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	// A fresh store over the same storage must rehydrate the same user by
	// value, with no identity call.
	client := &mock.Client{}
	fresh := New(client, storage, Config{Revalidate: RevalidateOff})
	if err := fresh.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	rehydrated := fresh.User()
	if rehydrated == nil {
		t.Fatal("expected rehydrated user")
	}
	if rehydrated.ID != original.ID || rehydrated.Email != original.Email || rehydrated.Role != original.Role {
		t.Fatalf("rehydrated user %+v differs from original %+v", rehydrated, original)
	}
	if client.LoginCalls+client.RegisterCalls+client.ValidateCalls != 0 {
		t.Fatal("rehydration must not hit the identity service")
	}
}

func TestLogoutClearsStateFully(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(&mock.Client{})
	if _, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	store.Logout(context.Background())

	if store.User() != nil || store.IsAuthenticated() {
		t.Fatal("expected user cleared after logout")
	}
	creds, user, err := storage.Load(context.Background())
	if err != nil {
		t.Fatalf("storage load: %v", err)
	}
	if creds.Present() || user != nil {
		t.Fatal("expected persisted keys cleared after logout")
	}

	fresh := New(&mock.Client{}, storage, Config{Revalidate: RevalidateOff})
	if err := fresh.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if fresh.IsAuthenticated() {
		t.Fatal("expected unauthenticated session after logout and rehydration")
	}
}

func TestLogoutProceedsWhenRemoteFails(t *testing.T) {
	t.Parallel()

	client := &mock.Client{LogoutFunc: func(context.Context, string) error {
		return &identity.Error{Code: identity.CodeNetworkFailure, Message: "offline"}
	}}
	store, _ := newTestStore(client)
	if _, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	store.Logout(context.Background())
	if store.IsAuthenticated() {
		t.Fatal("local session must clear even when the remote notification fails")
	}
	if client.LogoutCalls != 1 {
		t.Fatalf("expected one remote logout attempt, got %d", client.LogoutCalls)
	}
}

func TestUpdateProfileFailureLeavesUserIntact(t *testing.T) {
	t.Parallel()

	client := &mock.Client{}
	store, _ := newTestStore(client)
	if _, err := store.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleWriter}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	before := store.User()

	client.UpdateProfileFunc = func(context.Context, string, identity.ProfileUpdate) (*models.User, error) {
		return nil, &identity.Error{StatusCode: http.StatusBadGateway, Message: "upstream down"}
	}
	penName := "Quill"
	if _, err := store.UpdateProfile(context.Background(), identity.ProfileUpdate{PenName: &penName}); err == nil {
		t.Fatal("expected update error")
	}
	if store.User() != before {
		t.Fatal("failed update must not mutate the user")
	}
	if store.Message() == "" {
		t.Fatal("expected surfaced message after failed update")
	}
}

func TestUpdateProfileRequiresAuthentication(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(&mock.Client{})
	if _, err := store.UpdateProfile(context.Background(), identity.ProfileUpdate{}); err == nil {
		t.Fatal("expected error for unauthenticated update")
	}
}

func TestInitializeWithEmptyStorage(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(&mock.Client{})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if store.IsAuthenticated() || store.IsLoading() {
		t.Fatal("empty storage must yield an idle unauthenticated session")
	}
}

func TestInitializeSurvivesStorageFailure(t *testing.T) {
	t.Parallel()

	store := New(&mock.Client{}, failingStorage{}, Config{Revalidate: RevalidateOff})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("storage failure must not fail initialization, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected unauthenticated session")
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(&mock.Client{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Initialize(context.Background())
		}()
	}
	wg.Wait()
}

func TestBlockingRevalidationClearsInvalidToken(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	seed := New(&mock.Client{}, storage, Config{Revalidate: RevalidateOff})
	if _, err := seed.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}

	client := &mock.Client{ValidateTokenFunc: func(context.Context, string) (bool, error) {
		return false, nil
	}}
	store := New(client, storage, Config{Revalidate: RevalidateBlocking})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected session cleared for invalid token")
	}
	if creds, _, _ := storage.Load(context.Background()); creds.Present() {
		t.Fatal("expected persisted keys cleared for invalid token")
	}
}

func TestBlockingRevalidationKeepsSessionOnTransportError(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	seed := New(&mock.Client{}, storage, Config{Revalidate: RevalidateOff})
	if _, err := seed.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}

	client := &mock.Client{ValidateTokenFunc: func(context.Context, string) (bool, error) {
		return false, &identity.Error{Code: identity.CodeNetworkFailure, Message: "offline"}
	}}
	store := New(client, storage, Config{Revalidate: RevalidateBlocking})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("an unreachable identity service must not drop the cached session")
	}
}

func TestBackgroundRevalidationEventuallyClears(t *testing.T) {
	t.Parallel()

	storage := NewMemoryStorage()
	seed := New(&mock.Client{}, storage, Config{Revalidate: RevalidateOff})
	if _, err := seed.Login(context.Background(), identity.LoginInput{Email: "a@b.c", Role: models.RoleReader}); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}

	checked := make(chan struct{})
	client := &mock.Client{ValidateTokenFunc: func(context.Context, string) (bool, error) {
		defer close(checked)
		return false, nil
	}}
	store := New(client, storage, Config{Revalidate: RevalidateBackground})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	select {
	case <-checked:
	case <-time.After(2 * time.Second):
		t.Fatal("background revalidation never ran")
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.IsAuthenticated() {
		if time.Now().After(deadline) {
			t.Fatal("expected session cleared after background revalidation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCookieStorageRoundTrip(t *testing.T) {
	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}

	storage := &CookieStorage{Manager: sm}
	user := &models.User{
		ID:     "u9",
		Email:  "writer@versenest.app",
		Role:   models.RoleWriter,
		Writer: &models.WriterProfile{PenName: "Quill", Genres: []string{"sonnet"}},
	}
	creds := models.Credentials{Token: "tok", RefreshToken: "refresh"}

	if err := storage.Save(ctx, creds, user); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	gotCreds, gotUser, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if gotCreds != creds {
		t.Fatalf("credentials mismatch: %+v != %+v", gotCreds, creds)
	}
	if gotUser.ID != user.ID || gotUser.Writer == nil || gotUser.Writer.PenName != "Quill" {
		t.Fatalf("user mismatch: %+v", gotUser)
	}

	if err := storage.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	gotCreds, gotUser, err = storage.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear returned error: %v", err)
	}
	if gotCreds.Present() || gotUser != nil {
		t.Fatal("expected empty storage after clear")
	}
}
