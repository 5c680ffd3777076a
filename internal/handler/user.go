package handler

import (
	"net/http"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/service"
)

type userHandler struct {
	userService    *service.UserService
	catalogService *service.CatalogService
}

func NewUserHandler(userService *service.UserService, catalogService *service.CatalogService) *userHandler {
	return &userHandler{
		userService:    userService,
		catalogService: catalogService,
	}
}

func (h *userHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *userHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	err := decodeJSON(r, &in)
	if err != nil {
		presentError(w, r, err)
		return
	}

	user, err := h.userService.Create(r.Context(), in)
	if err != nil {
		presentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

// Me returns the signed-in user.
func (h *userHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *userHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.catalogService.Roles(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *userHandler) CaseTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogService.CaseTypes(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *userHandler) CaseStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.catalogService.CaseStatuses(r.Context())
	if err != nil {
		presentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
