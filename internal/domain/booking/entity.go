package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status represents booking status. Cancellation is a status transition, not
// a delete, so audit history survives.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a confirmed reservation of one or more contiguous grid slots on
// one setup. Revision is the optimistic-concurrency token: every write is
// conditioned on the revision captured at read time. Slots lists the start
// minute of every covered grid slot; the store enforces slot-level uniqueness
// over it, so two confirmed bookings can never share a slot.
type Booking struct {
	ID            uuid.UUID
	SetupID       uuid.UUID
	UserID        uuid.UUID
	CustomerName  string
	CustomerEmail string
	Date          string // "2006-01-02"
	Start         int    // minutes since midnight
	End           int
	Slots         []int
	Players       int
	Price         float64
	Status        Status
	Revision      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Interval returns the booked interval
func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// IsActive returns true while the booking is confirmed
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// Interval is a half-open window [Start, End) in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps is the single conflict predicate shared by the read and write
// paths. Half-open semantics: touching endpoints do not conflict.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// OverlapsAny reports whether iv overlaps any interval in set
func OverlapsAny(iv Interval, set []Interval) bool {
	for _, other := range set {
		if Overlaps(iv, other) {
			return true
		}
	}
	return false
}
