package handlers

import (
	"net/http"

	"github.com/example/castify/internal/auth"
	"github.com/example/castify/internal/platform/analytics"
	"github.com/example/castify/internal/platform/api"
	platformauth "github.com/example/castify/internal/platform/auth"
	"github.com/example/castify/internal/platform/httpserver"
)

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and signs the caller in.
func Register(svc *auth.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req registerReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		pair, err := svc.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectAuthRegistered, "auth.registered", pair.User.ID, nil)
		api.WriteJSON(w, http.StatusCreated, pair)
	}
}

// Login signs a user in by email or username.
func Login(svc *auth.Service, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req loginReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		pair, err := svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		events.Publish(analytics.SubjectAuthLoggedIn, "auth.logged_in", pair.User.ID, nil)
		api.WriteJSON(w, http.StatusOK, pair)
	}
}

// Refresh rotates a refresh session.
func Refresh(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req refreshReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		pair, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, pair)
	}
}

// Logout revokes a refresh session.
func Logout(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req refreshReq
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		if err := svc.Logout(r.Context(), req.RefreshToken); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// Me returns the authenticated user's account.
func Me(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		uid, ok := platformauth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_MISSING", "authentication required", rid)
			return
		}

		u, err := svc.Me(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}
