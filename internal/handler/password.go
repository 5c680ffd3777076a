package handler

import (
	"net/http"

	"github.com/casetrack/casetrack/internal/service"
)

type passwordHandler struct {
	passwordResetService *service.PasswordResetService
}

func NewPasswordHandler(passwordResetService *service.PasswordResetService) *passwordHandler {
	return &passwordHandler{passwordResetService: passwordResetService}
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

func (h *passwordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		presentErrorAs(w, r, "detail", err)
		return
	}

	found, err := h.passwordResetService.CheckUserExists(r.Context(), req.Username)
	if err != nil {
		presentErrorAs(w, r, "detail", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "username not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "username found"})
}

func (h *passwordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		presentErrorAs(w, r, "detail", err)
		return
	}

	err = h.passwordResetService.ResetPassword(r.Context(), req.Username, req.NewPassword)
	if err != nil {
		presentErrorAs(w, r, "detail", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "password reset successful"})
}
