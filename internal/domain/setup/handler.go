package setup

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/middleware"
	"github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/validator"
)

// Handler handles setup HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates setup handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /setups
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	st, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrNameTaken:
			response.Conflict(w, "NAME_TAKEN", "A setup with this name already exists")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, SetupResponseFromEntity(st))
}

// GetByID handles GET /setups/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid setup ID")
		return
	}

	st, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case ErrSetupNotFound:
			response.NotFound(w, "Setup not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, SetupResponseFromEntity(st))
}

// Update handles PATCH /setups/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid setup ID")
		return
	}

	var req UpdateSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	st, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrSetupNotFound:
			response.NotFound(w, "Setup not found")
		case ErrNameTaken:
			response.Conflict(w, "NAME_TAKEN", "A setup with this name already exists")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, SetupResponseFromEntity(st))
}

// List handles GET /setups
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	includeRetired := middleware.IsAdmin(r.Context()) && r.URL.Query().Get("all") == "true"

	setups, err := h.service.List(r.Context(), includeRetired)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]SetupResponse, 0, len(setups))
	for _, s := range setups {
		out = append(out, SetupResponseFromEntity(s))
	}
	response.OK(w, out)
}
