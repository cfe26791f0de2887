package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"versenest/internal/handlers"
	applog "versenest/internal/log"
	"versenest/internal/routes"
)

func newRouter() http.Handler {
	applog.Debug(context.Background(), "registering http routes")

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handlers.Health)

	router.Get(routes.Root, handlers.Home)
	router.Post("/panel/{role}/open", handlers.OpenPanel)
	router.Post("/panel/{role}/tab/{tab}", handlers.ChangePanelTab)
	router.Post("/panel/close", handlers.ClosePanel)

	router.Post("/auth/{role}/login", handlers.Login)
	router.Post("/auth/{role}/signup", handlers.Signup)
	router.Post("/auth/field", handlers.ValidateField)
	router.Get("/auth/reset", handlers.PasswordResetForm)
	router.Post("/auth/reset", handlers.RequestPasswordReset)
	router.Post("/logout", handlers.Logout)
	router.Get("/logout", handlers.Logout)

	router.Group(func(protected chi.Router) {
		protected.Use(handlers.RequireAuthentication)
		protected.Get(routes.WriterHome, handlers.WriterHome)
		protected.Get(routes.ReaderHome, handlers.ReaderHome)
		protected.Post("/profile", handlers.UpdateProfile)
	})

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	applog.Debug(context.Background(), "routes registered")
	return router
}
