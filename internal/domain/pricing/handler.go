package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/validator"
)

// Handler handles pricing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates pricing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SetRule handles PUT /pricing/{setupID}
func (h *Handler) SetRule(w http.ResponseWriter, r *http.Request) {
	setupID, err := uuid.Parse(chi.URLParam(r, "setupID"))
	if err != nil {
		response.BadRequest(w, "Invalid setup ID")
		return
	}

	var req SetRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rule, err := h.service.SetRule(r.Context(), setupID, &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, RuleResponseFromEntity(rule))
}

// List handles GET /pricing
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, RuleResponseFromEntity(rule))
	}
	response.OK(w, out)
}
