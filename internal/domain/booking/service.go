package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// SetupInfo is the slice of a setup the booking path needs
type SetupInfo struct {
	ID     uuid.UUID
	Active bool
}

// SetupDirectory resolves setups; returns nil when the id is unknown
type SetupDirectory interface {
	GetSetup(ctx context.Context, id uuid.UUID) (*SetupInfo, error)
}

// PriceResolver resolves the price for a (setup, slot) pair at commit time
type PriceResolver interface {
	Resolve(ctx context.Context, setupID uuid.UUID, date string, slot timegrid.Slot) (float64, error)
}

// Contact is the customer snapshot denormalized onto a booking
type Contact struct {
	Name  string
	Email string
}

// UserDirectory resolves the contact details of an authenticated principal
type UserDirectory interface {
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
}

// CacheInvalidator drops cached availability for a setup/date after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context, setupID uuid.UUID, date string)
}

// Service is the transactional core. Every operation follows the same shape:
// read current state, validate against fresh ground truth, attempt an atomic
// conditional write, and surface races to the caller instead of retrying.
type Service struct {
	repo      Repository
	conflicts *ConflictIndex
	setups    SetupDirectory
	prices    PriceResolver
	users     UserDirectory
	cache     CacheInvalidator
	grid      timegrid.Config
}

// NewService creates booking service
func NewService(repo Repository, conflicts *ConflictIndex, setups SetupDirectory, prices PriceResolver, users UserDirectory, cache CacheInvalidator, grid timegrid.Config) *Service {
	return &Service{
		repo:      repo,
		conflicts: conflicts,
		setups:    setups,
		prices:    prices,
		users:     users,
		cache:     cache,
		grid:      grid,
	}
}

// Create reserves duration contiguous grid slots starting at start. The
// validation pass against fresh occupied state is a fast-fail optimization;
// the unique-index insert is what actually enforces disjointness under
// concurrency. A race loss surfaces as ErrSlotConflict and is not retried
// here.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, setupID uuid.UUID, date string, start, duration, players int) (*Booking, error) {
	span, ok := s.grid.Span(start, duration)
	if !ok {
		return nil, ErrInvalidSlot
	}

	info, err := s.setups.GetSetup(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrSetupNotFound
	}
	if !info.Active {
		return nil, ErrSetupUnavailable
	}

	sched, err := s.conflicts.Schedule(ctx, setupID, date, uuid.Nil)
	if err != nil {
		return nil, err
	}
	iv := spanInterval(span)
	if OverlapsAny(iv, sched.Booked) {
		return nil, ErrSlotConflict
	}
	if OverlapsAny(iv, sched.Blocked) {
		return nil, ErrSetupUnavailable
	}

	// Price is locked in now; later pricing changes never touch this booking.
	// Each covered slot is priced on its own, so bands and overrides apply to
	// exactly the slots they contain.
	price, err := s.priceSpan(ctx, setupID, date, span)
	if err != nil {
		return nil, err
	}

	contact, err := s.users.GetContact(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &Booking{
		ID:            uuid.New(),
		SetupID:       setupID,
		UserID:        userID,
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		Date:          date,
		Start:         iv.Start,
		End:           iv.End,
		Slots:         slotStarts(span),
		Players:       players,
		Price:         price,
		Status:        StatusConfirmed,
		Revision:      1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, setupID, date)

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("setup_id", setupID.String()).
		Str("date", date).
		Str("interval", timegrid.FormatClock(iv.Start)+"-"+timegrid.FormatClock(iv.End)).
		Msg("Booking created")
	return b, nil
}

// Reschedule moves a confirmed booking to a new date/start, keeping its
// duration. The conditional write is guarded by the revision captured here; a
// stale token fails with ErrStaleBooking and the caller re-reads and
// resubmits. The snapshotted price travels with the booking.
func (s *Service) Reschedule(ctx context.Context, callerID uuid.UUID, isAdmin bool, bookingID uuid.UUID, newDate string, newStart int) (*Booking, error) {
	b, err := s.getOwned(ctx, callerID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, ErrBookingNotActive
	}

	duration := (b.End - b.Start) / s.grid.SlotMinutes
	span, ok := s.grid.Span(newStart, duration)
	if !ok {
		return nil, ErrInvalidSlot
	}

	// Occupied check excludes the booking's own interval so it cannot
	// conflict with itself
	sched, err := s.conflicts.Schedule(ctx, b.SetupID, newDate, b.ID)
	if err != nil {
		return nil, err
	}
	iv := spanInterval(span)
	if OverlapsAny(iv, sched.Booked) {
		return nil, ErrSlotConflict
	}
	if OverlapsAny(iv, sched.Blocked) {
		return nil, ErrSetupUnavailable
	}

	oldDate := b.Date
	updated, err := s.repo.UpdateInterval(ctx, b.ID, b.Revision, newDate, iv.Start, iv.End, slotStarts(span))
	if err == ErrStaleBooking {
		return nil, s.refineStale(ctx, bookingID)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, b.SetupID, oldDate)
	s.cache.Invalidate(ctx, b.SetupID, newDate)

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("from", oldDate).
		Str("to", newDate).
		Str("interval", timegrid.FormatClock(iv.Start)+"-"+timegrid.FormatClock(iv.End)).
		Msg("Booking rescheduled")
	return updated, nil
}

// Cancel transitions a booking to cancelled. Cancelling an already-cancelled
// booking succeeds and returns the current state unchanged.
func (s *Service) Cancel(ctx context.Context, callerID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.getOwned(ctx, callerID, isAdmin, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return b, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Revision, StatusCancelled)
	if err == ErrStaleBooking {
		// A concurrent cancel reaching the same end state is a success
		current, rerr := s.repo.GetByID(ctx, bookingID)
		if rerr != nil {
			return nil, rerr
		}
		if current == nil {
			return nil, ErrBookingNotFound
		}
		if current.Status == StatusCancelled {
			return current, nil
		}
		return nil, ErrStaleBooking
	}
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, b.SetupID, b.Date)

	log.Info().Str("booking_id", b.ID.String()).Msg("Booking cancelled")
	return updated, nil
}

// GetByID returns a booking visible to the caller
func (s *Service) GetByID(ctx context.Context, callerID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*Booking, error) {
	return s.getOwned(ctx, callerID, isAdmin, bookingID)
}

// CheckByEmail is the unauthenticated lookup: booking id plus the customer
// email it was created under
func (s *Service) CheckByEmail(ctx context.Context, bookingID uuid.UUID, email string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.CustomerEmail != email {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// ListMine returns the caller's bookings
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns bookings, optionally filtered by date. Admin only.
func (s *Service) ListAll(ctx context.Context, date string) ([]*Booking, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *Service) getOwned(ctx context.Context, callerID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !isAdmin && b.UserID != callerID {
		return nil, ErrNotBookingOwner
	}
	return b, nil
}

// priceSpan sums the resolved price of every slot in the span
func (s *Service) priceSpan(ctx context.Context, setupID uuid.UUID, date string, span []timegrid.Slot) (float64, error) {
	total := 0.0
	for _, slot := range span {
		price, err := s.prices.Resolve(ctx, setupID, date, slot)
		if err != nil {
			return 0, err
		}
		total += price
	}
	return total, nil
}

func spanInterval(span []timegrid.Slot) Interval {
	return Interval{Start: span[0].Start, End: span[len(span)-1].End}
}

func slotStarts(span []timegrid.Slot) []int {
	starts := make([]int, 0, len(span))
	for _, slot := range span {
		starts = append(starts, slot.Start)
	}
	return starts
}

// refineStale re-reads after an unmatched conditional write to report the
// most specific failure
func (s *Service) refineStale(ctx context.Context, bookingID uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrBookingNotFound
	}
	if current.Status != StatusConfirmed {
		return ErrBookingNotActive
	}
	return ErrStaleBooking
}
