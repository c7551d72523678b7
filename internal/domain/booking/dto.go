package booking

import (
	"time"

	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// CreateBookingRequest for POST /bookings. Duration counts grid slots.
type CreateBookingRequest struct {
	SetupID  string `json:"setup_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,date"`
	Start    string `json:"start" validate:"required,clock"`
	Duration int    `json:"duration" validate:"required,min=1,max=12"`
	Players  int    `json:"players" validate:"required,min=1,max=10"`
}

// RescheduleBookingRequest for PATCH /bookings/{id}
type RescheduleBookingRequest struct {
	Date  string `json:"date" validate:"required,date"`
	Start string `json:"start" validate:"required,clock"`
}

// BookingResponse is the API view of a booking
type BookingResponse struct {
	ID            string    `json:"id"`
	SetupID       string    `json:"setup_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"date"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	Players       int       `json:"players"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Revision      int64     `json:"revision"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingResponseFromEntity maps a booking entity to its response form
func BookingResponseFromEntity(b *Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		SetupID:       b.SetupID.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Date:          b.Date,
		Start:         timegrid.FormatClock(b.Start),
		End:           timegrid.FormatClock(b.End),
		Players:       b.Players,
		Price:         b.Price,
		Status:        string(b.Status),
		Revision:      b.Revision,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
