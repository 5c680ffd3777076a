package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		presentError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password are required."})
		return
	}

	user, session, err := h.authService.Login(r.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			slog.WarnContext(r.Context(), "login failed", "username", req.Username)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		presentError(w, r, err)
		return
	}

	h.authService.SetSessionCookie(w, session)
	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "remember_me", req.RememberMe)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Login successful",
		"user":      user,
		"csrfToken": ctxkeys.CSRFToken(r.Context()),
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
