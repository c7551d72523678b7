package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/domain/override"
	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// ConflictIndex derives the occupied view for one setup and day from ground
// truth: confirmed bookings plus blocked overrides. Both the availability
// read path and the reservation write path go through it, so conflict
// decisions agree at slot boundaries.
type ConflictIndex struct {
	bookings  Repository
	overrides override.Store
	grid      timegrid.Config
}

// NewConflictIndex creates the conflict index
func NewConflictIndex(bookings Repository, overrides override.Store, grid timegrid.Config) *ConflictIndex {
	return &ConflictIndex{bookings: bookings, overrides: overrides, grid: grid}
}

// DaySchedule is the occupied state of one setup on one date. Booked and
// Blocked are kept apart so callers can tell a taken slot from an
// admin-disabled one; Occupied is their union.
type DaySchedule struct {
	Booked  []Interval
	Blocked []Interval
}

// Occupied returns all intervals that make a slot non-bookable
func (s *DaySchedule) Occupied() []Interval {
	out := make([]Interval, 0, len(s.Booked)+len(s.Blocked))
	out = append(out, s.Booked...)
	out = append(out, s.Blocked...)
	return out
}

// Schedule reads current bookings and overrides for the setup/date. Pass a
// booking id in exclude to leave that booking's own interval out, so a
// reschedule does not conflict with itself; uuid.Nil excludes nothing.
func (ci *ConflictIndex) Schedule(ctx context.Context, setupID uuid.UUID, date string, exclude uuid.UUID) (*DaySchedule, error) {
	confirmed, err := ci.bookings.ListConfirmedForDay(ctx, setupID, date)
	if err != nil {
		return nil, err
	}

	sched := &DaySchedule{}
	for _, b := range confirmed {
		if b.ID == exclude {
			continue
		}
		sched.Booked = append(sched.Booked, b.Interval())
	}

	active, err := ci.overrides.ActiveForDate(ctx, setupID, date)
	if err != nil {
		return nil, err
	}
	for _, o := range active {
		if o.Kind == override.KindBlocked {
			// A blocked override covers the whole operating window
			sched.Blocked = append(sched.Blocked, Interval{Start: ci.grid.Open, End: ci.grid.Close})
			break
		}
	}

	return sched, nil
}
