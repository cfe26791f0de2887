package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"versenest/internal/config"
	"versenest/internal/db"
	dbmock "versenest/internal/db/mock"
	"versenest/internal/identity"
	"versenest/internal/identity/local"
	applog "versenest/internal/log"
	"versenest/internal/server"
	"versenest/internal/session"
)

// serverLifecycle is the slice of server.Server the run loop depends on.
type serverLifecycle interface {
	Start() error
	Stop() error
}

// Seams for tests; production wiring is the default value of each.
var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	configureDatabase   = db.Configure
	newMockDatabaseFunc = dbmock.New

	newRemoteIdentityFunc = func(cfg identity.Config) (identity.Client, error) {
		return identity.NewHTTPClient(cfg)
	}
	newLocalIdentityFunc = func(database *gorm.DB, cfg local.Config) (identity.Client, error) {
		return local.New(database, cfg)
	}
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		return sigCh, func() { signal.Stop(sigCh) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		log.Printf("configuration error: %v", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Log.Level); err != nil {
		log.Printf("logging configuration error: %v", err)
		return 1
	}

	client, err := buildIdentityClient(ctx, cfg)
	if err != nil {
		log.Printf("identity client setup failed: %v", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Identity:   client,
		Revalidate: session.RevalidateMode(cfg.Identity.Revalidate),
	})
	if err != nil {
		log.Printf("server setup failed: %v", err)
		return 1
	}

	shutdownCh, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	startErrCh := make(chan error, 1)
	go func() {
		log.Printf("starting http server on %s", cfg.Server.Addr)
		startErrCh <- srv.Start()
	}()

	select {
	case err := <-startErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server encountered an error: %v", err)
			return 1
		}
	case <-shutdownCh:
		log.Println("shutting down http server")
		if err := srv.Stop(); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
			return 1
		}
	}

	return 0
}

// buildIdentityClient talks to the remote identity service when a URL is
// configured and falls back to the embedded local service otherwise.
func buildIdentityClient(ctx context.Context, cfg config.Config) (identity.Client, error) {
	if cfg.Identity.BaseURL != "" {
		applog.Info(ctx, "using remote identity service", "url", cfg.Identity.BaseURL)
		return newRemoteIdentityFunc(identity.Config{
			BaseURL: cfg.Identity.BaseURL,
			Timeout: cfg.Identity.Timeout,
		})
	}

	var (
		database *gorm.DB
		err      error
	)
	if cfg.Database.UseMock {
		applog.Info(ctx, "using embedded identity service with seeded mock database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		applog.Info(ctx, "using embedded identity service", "database", cfg.Database.URL)
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		return nil, err
	}

	return newLocalIdentityFunc(database, local.Config{Secret: []byte(cfg.Identity.Secret)})
}
