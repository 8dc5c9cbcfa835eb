package handlers

import (
	"context"
	"net/http"
	"time"

	"finsmart/internal/demo"
	"finsmart/internal/logging"
	"finsmart/internal/models"
	"finsmart/internal/service"
	"finsmart/internal/session"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "finsmart_session"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	auth         *service.AuthService
	finance      *service.FinanceService
	demo         *demo.Generator
	secureCookie bool
	startedAt    time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth *service.AuthService, finance *service.FinanceService, gen *demo.Generator, secureCookie bool) *Handlers {
	return &Handlers{
		auth:         auth,
		finance:      finance,
		demo:         gen,
		secureCookie: secureCookie,
		startedAt:    time.Now(),
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthMiddleware rejects requests without an active session with 401 and
// puts the session's user into the request context.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.auth.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			h.fail(w, r, err, "Server error")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = logging.WithEntry(ctx, logging.FromContext(ctx).WithField("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Register creates an account and logs the new user in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	h.setSessionCookie(w, res.Session)
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Registration successful"})
}

// Login verifies credentials and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	h.setSessionCookie(w, res.Session)
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout ends the caller's session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		h.fail(w, r, err, "Could not log out")
		return
	}
	h.clearSessionCookie(w)
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CheckAuth reports whether the request carries an active session.
func (h *Handlers) CheckAuth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]bool{
		"authenticated": h.auth.CheckAuth(r.Context(), sessionToken(r)),
	})
}

// Health returns uptime and basic status.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, s models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(session.Duration.Seconds()),
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
