package local

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"versenest/internal/identity"
	applog "versenest/internal/log"
	"versenest/models"
)

// Handler exposes the service over the same JSON protocol the HTTP client
// speaks, so a local deployment is interchangeable with a remote one.
func Handler(service *Service) http.Handler {
	router := chi.NewRouter()

	router.Post("/auth/login", handleLogin(service))
	router.Post("/auth/register", handleRegister(service))
	router.Post("/auth/validate", handleValidate(service))
	router.Post("/auth/logout", handleLogout(service))
	router.Put("/users/me", handleUpdateProfile(service))

	return router
}

type grantPayload struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

type validatePayload struct {
	Token string `json:"token"`
}

type validResult struct {
	Valid bool `json:"valid"`
}

type userPayload struct {
	User *models.User `json:"user"`
}

func handleLogin(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input identity.LoginInput
		if !decodeJSON(w, r, &input) {
			return
		}

		grant, err := service.Login(r.Context(), input)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeGrant(w, r, grant)
	}
}

func handleRegister(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input identity.RegisterInput
		if !decodeJSON(w, r, &input) {
			return
		}

		grant, err := service.Register(r.Context(), input)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeGrant(w, r, grant)
	}
}

func handleValidate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validatePayload
		if !decodeJSON(w, r, &payload) {
			return
		}

		valid, err := service.ValidateToken(r.Context(), payload.Token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, validResult{Valid: valid})
	}
}

func handleLogout(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Logout(r.Context(), bearerToken(r)); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUpdateProfile(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update identity.ProfileUpdate
		if !decodeJSON(w, r, &update) {
			return
		}

		user, err := service.UpdateProfile(r.Context(), bearerToken(r), update)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, userPayload{User: user})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, r, http.StatusBadRequest, &identity.Error{
			Code:    identity.CodeValidationRejected,
			Message: "request body is not valid JSON",
		})
		return false
	}
	return true
}

func writeGrant(w http.ResponseWriter, r *http.Request, grant *identity.Grant) {
	writeJSON(w, r, http.StatusOK, grantPayload{
		Success:      true,
		User:         grant.User,
		Token:        grant.Credentials.Token,
		RefreshToken: grant.Credentials.RefreshToken,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		status := idErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, r, status, idErr)
		return
	}

	applog.Error(r.Context(), "identity request failed", "error", err)
	writeJSON(w, r, http.StatusInternalServerError, &identity.Error{Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(r.Context(), "encode identity response", "error", err)
	}
}
