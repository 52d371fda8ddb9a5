package handler

import (
	"errors"
	"net/http"

	"restaurant-site/internal/authservice/service"
	"restaurant-site/pkg/httpx"
	"restaurant-site/pkg/models"
)

const (
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid username or password"
	msgInternal           = "Internal server error"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password, httpx.RequestIDFrom(r.Context()))
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		httpx.JSONError(w, http.StatusBadRequest, msgMissingCredentials)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, msgInternal)
	default:
		httpx.JSONResponse(w, http.StatusOK, models.LoginResponse{AccessToken: token})
	}
}
