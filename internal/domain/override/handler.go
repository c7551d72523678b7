package override

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/validator"
)

// Handler handles override HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates override handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /overrides
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	o, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidDateRange:
			response.UnprocessableEntity(w, "INVALID_DATE_RANGE", "date_from must not be after date_to")
		case ErrPriceRequired:
			response.UnprocessableEntity(w, "PRICE_REQUIRED", "price_override requires a price")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, OverrideResponseFromEntity(o))
}

// Delete handles DELETE /overrides/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid override ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrOverrideNotFound:
			response.NotFound(w, "Override not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// List handles GET /overrides
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, OverrideResponseFromEntity(o))
	}
	response.OK(w, out)
}
