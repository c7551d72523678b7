package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gamezone/gamezone-api/internal/middleware"
	"github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrEmailTaken:
			response.Conflict(w, "EMAIL_TAKEN", "Email already registered")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, TokenResponse{Token: token, ExpiresIn: h.service.AccessTTLSeconds(), User: UserResponseFromEntity(u)})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, TokenResponse{Token: token, ExpiresIn: h.service.AccessTTLSeconds(), User: UserResponseFromEntity(u)})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.NotFound(w, "User not found")
		return
	}

	response.OK(w, UserResponseFromEntity(u))
}
