package handlers

import (
	"log/slog"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// Auth handles login, logout and the current-user endpoint.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. On success the session cookie is set and
// the user is returned.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateLogin(req.Email, req.Password); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeStoreError(w, "login lookup", err)
		return
	}
	// Same answer for unknown email and wrong password.
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		slog.Warn("login failed", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, session.FromUser(user)); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /auth/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me. A session whose user has since been deleted
// answers 401.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		writeStoreError(w, "load current user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
