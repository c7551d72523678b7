package booking

import "errors"

var (
	// ErrSlotConflict means the requested interval is already taken. The
	// caller should re-fetch availability and resubmit; the engine never
	// retries on its own.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrSetupUnavailable means the setup is retired or blocked by an admin
	// override for the requested date
	ErrSetupUnavailable = errors.New("setup unavailable for this date")

	// ErrStaleBooking means another writer updated the booking between read
	// and commit. Safe to re-read and retry immediately.
	ErrStaleBooking = errors.New("booking was modified concurrently")

	ErrBookingNotActive = errors.New("booking is not active")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotBookingOwner  = errors.New("booking belongs to another user")
	ErrSetupNotFound    = errors.New("setup not found")
	ErrInvalidSlot      = errors.New("requested time is not a grid slot")
)
