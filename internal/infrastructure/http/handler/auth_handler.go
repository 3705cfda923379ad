package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/app/dto"
	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, h.logger, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.SessionResponse{Authenticated: true, User: user})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	response.NoContent(w)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.SessionResponse{Authenticated: true, User: user})
}
