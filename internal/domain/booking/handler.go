package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/domain/pricing"
	"github.com/gamezone/gamezone-api/internal/middleware"
	"github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
	"github.com/gamezone/gamezone-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service      *Service
	availability *AvailabilityService
}

// NewHandler creates booking handler
func NewHandler(service *Service, availability *AvailabilityService) *Handler {
	return &Handler{service: service, availability: availability}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	setupID, err := uuid.Parse(req.SetupID)
	if err != nil {
		response.BadRequest(w, "Invalid setup ID")
		return
	}
	start, err := timegrid.ParseClock(req.Start)
	if err != nil {
		response.BadRequest(w, "Invalid start time")
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.Create(r.Context(), userID, setupID, req.Date, start, req.Duration, req.Players)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, BookingResponseFromEntity(b))
}

// Reschedule handles PATCH /bookings/{id}
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	start, err := timegrid.ParseClock(req.Start)
	if err != nil {
		response.BadRequest(w, "Invalid start time")
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.Reschedule(r.Context(), userID, middleware.IsAdmin(r.Context()), bookingID, req.Date, start)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.Cancel(r.Context(), userID, middleware.IsAdmin(r.Context()), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.GetByID(r.Context(), userID, middleware.IsAdmin(r.Context()), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// ListMine handles GET /bookings/my
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bookings, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, responsesFromEntities(bookings))
}

// ListAll handles GET /bookings (admin)
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if errs := validator.Validate(&struct {
			Date string `json:"date" validate:"date"`
		}{Date: date}); errs != nil {
			response.BadRequest(w, "Invalid date filter")
			return
		}
	}

	bookings, err := h.service.ListAll(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, responsesFromEntities(bookings))
}

// Check handles GET /bookings/check?id=&email= (public lookup)
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}
	email := r.URL.Query().Get("email")
	if errs := validator.Validate(&struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: email}); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.CheckByEmail(r.Context(), bookingID, email)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Availability handles GET /availability?setup_id=&date=
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	setupID, err := uuid.Parse(r.URL.Query().Get("setup_id"))
	if err != nil {
		response.BadRequest(w, "Invalid setup ID")
		return
	}
	date := r.URL.Query().Get("date")
	if errs := validator.Validate(&struct {
		Date string `json:"date" validate:"required,date"`
	}{Date: date}); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	slots, err := h.availability.Resolve(r.Context(), setupID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, slots)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSlotConflict):
		response.Conflict(w, "SLOT_CONFLICT", "The requested slot is already booked")
	case errors.Is(err, ErrStaleBooking):
		response.Conflict(w, "STALE_BOOKING", "The booking was modified concurrently, re-read and retry")
	case errors.Is(err, ErrSetupUnavailable):
		response.Conflict(w, "SETUP_UNAVAILABLE", "The setup is not available for the requested slot")
	case errors.Is(err, ErrBookingNotActive):
		response.Conflict(w, "BOOKING_NOT_ACTIVE", "The booking is no longer active")
	case errors.Is(err, ErrInvalidSlot):
		response.UnprocessableEntity(w, "INVALID_SLOT", "The start time does not align with the slot grid")
	case errors.Is(err, pricing.ErrNoPricingDefined):
		response.UnprocessableEntity(w, "NO_PRICING_DEFINED", "No pricing is defined for the setup")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrSetupNotFound):
		response.NotFound(w, "Setup not found")
	case errors.Is(err, ErrNotBookingOwner):
		response.Forbidden(w, "You do not own this booking")
	case errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, "Storage is temporarily unavailable")
	default:
		response.InternalError(w)
	}
}

func responsesFromEntities(bookings []*Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingResponseFromEntity(b))
	}
	return out
}
