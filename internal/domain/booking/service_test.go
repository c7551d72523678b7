package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/domain/booking"
	"github.com/gamezone/gamezone-api/internal/domain/override"
	"github.com/gamezone/gamezone-api/internal/domain/pricing"
	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

/* =========================
   In-memory fakes
   ========================= */

// fakeRepo mimics the mongo repository, including the partial unique
// multikey index over (setup_id, date, slots) for confirmed bookings and the
// revision guard on conditional updates.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeRepo) Insert(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotTaken(b.SetupID, b.Date, b.Slots, b.ID) {
		return booking.ErrSlotConflict
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

// slotTaken mirrors the unique multikey index: any shared slot element
// between confirmed bookings is a duplicate key.
func (r *fakeRepo) slotTaken(setupID uuid.UUID, date string, slots []int, self uuid.UUID) bool {
	for _, existing := range r.bookings {
		if existing.ID == self || existing.Status != booking.StatusConfirmed ||
			existing.SetupID != setupID || existing.Date != date {
			continue
		}
		for _, mine := range slots {
			for _, theirs := range existing.Slots {
				if mine == theirs {
					return true
				}
			}
		}
	}
	return false
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateInterval(_ context.Context, id uuid.UUID, revision int64, date string, start, end int, slots []int) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Revision != revision || b.Status != booking.StatusConfirmed {
		return nil, booking.ErrStaleBooking
	}
	if r.slotTaken(b.SetupID, date, slots, id) {
		return nil, booking.ErrSlotConflict
	}
	b.Date = date
	b.Start = start
	b.End = end
	b.Slots = slots
	b.Revision++
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, revision int64, status booking.Status) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Revision != revision {
		return nil, booking.ErrStaleBooking
	}
	b.Status = status
	b.Revision++
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) ListConfirmedForDay(_ context.Context, setupID uuid.UUID, date string) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.SetupID == setupID && b.Date == date && b.Status == booking.StatusConfirmed {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByDate(_ context.Context, date string) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if date == "" || b.Date == date {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeOverrides struct {
	overrides []*override.Override
}

func (f *fakeOverrides) ActiveForDate(_ context.Context, setupID uuid.UUID, date string) ([]*override.Override, error) {
	var out []*override.Override
	for _, o := range f.overrides {
		if o.SetupID == setupID && o.AppliesTo(date) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeSetups struct {
	setups map[uuid.UUID]bool // id -> active
}

func (f *fakeSetups) GetSetup(_ context.Context, id uuid.UUID) (*booking.SetupInfo, error) {
	active, ok := f.setups[id]
	if !ok {
		return nil, nil
	}
	return &booking.SetupInfo{ID: id, Active: active}, nil
}

type fakePrices struct {
	price float64
	err   error
}

func (f *fakePrices) Resolve(context.Context, uuid.UUID, string, timegrid.Slot) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

type fakeUsers struct{}

func (fakeUsers) GetContact(_ context.Context, id uuid.UUID) (*booking.Contact, error) {
	return &booking.Contact{Name: "Test Player", Email: "player@test.local"}, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (f *fakeCache) Invalidate(_ context.Context, setupID uuid.UUID, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, setupID.String()+":"+date)
}

/* =========================
   Fixture
   ========================= */

type fixture struct {
	repo    *fakeRepo
	setups  *fakeSetups
	prices  *fakePrices
	cache   *fakeCache
	ovr     *fakeOverrides
	grid    timegrid.Config
	service *booking.Service
	setupID uuid.UUID
	userID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	grid, err := timegrid.NewConfig("10:00", "23:00", 60)
	requireNoError(t, err)

	f := &fixture{
		repo:    newFakeRepo(),
		setups:  &fakeSetups{setups: make(map[uuid.UUID]bool)},
		prices:  &fakePrices{price: 500},
		cache:   &fakeCache{},
		ovr:     &fakeOverrides{},
		grid:    grid,
		setupID: uuid.New(),
		userID:  uuid.New(),
	}
	f.setups.setups[f.setupID] = true

	conflicts := booking.NewConflictIndex(f.repo, f.ovr, grid)
	f.service = booking.NewService(f.repo, conflicts, f.setups, f.prices, fakeUsers{}, f.cache, grid)
	return f
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func minutes(hh, mm int) int { return hh*60 + mm }

/* =========================
   Test 1: Create
   ========================= */

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	if b.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if b.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", b.Revision)
	}
	if b.Price != 500 {
		t.Fatalf("expected snapshotted price 500, got %v", b.Price)
	}
	if b.End != minutes(15, 0) {
		t.Fatalf("expected end 15:00, got %d", b.End)
	}
	if len(f.cache.invalidated) != 1 {
		t.Fatalf("expected one cache invalidation, got %d", len(f.cache.invalidated))
	}
}

func TestCreateBookingSlotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(14, 0), 1, 4)
	if !errors.Is(err, booking.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestCreateBookingAdjacentSlotsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 14:00-15:00 then 15:00-16:00: shared boundary, no overlap
	_, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(15, 0), 1, 2)
	requireNoError(t, err)
}

func TestCreateBookingOffGridStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-01", minutes(14, 30), 1, 2)
	if !errors.Is(err, booking.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestCreateBookingSetupChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.userID, uuid.New(), "2026-09-01", minutes(14, 0), 1, 2)
	if !errors.Is(err, booking.ErrSetupNotFound) {
		t.Fatalf("expected ErrSetupNotFound, got %v", err)
	}

	retired := uuid.New()
	f.setups.setups[retired] = false
	_, err = f.service.Create(ctx, f.userID, retired, "2026-09-01", minutes(14, 0), 1, 2)
	if !errors.Is(err, booking.ErrSetupUnavailable) {
		t.Fatalf("expected ErrSetupUnavailable, got %v", err)
	}
}

func TestCreateBookingBlockedOverride(t *testing.T) {
	f := newFixture(t)
	f.ovr.overrides = append(f.ovr.overrides, &override.Override{
		ID:       uuid.New(),
		SetupID:  f.setupID,
		Kind:     override.KindBlocked,
		DateFrom: "2026-09-01",
		DateTo:   "2026-09-03",
	})

	_, err := f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-02", minutes(14, 0), 1, 2)
	if !errors.Is(err, booking.ErrSetupUnavailable) {
		t.Fatalf("expected ErrSetupUnavailable, got %v", err)
	}

	// The day after the range is bookable again
	_, err = f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-04", minutes(14, 0), 1, 2)
	requireNoError(t, err)
}

func TestCreateBookingNoPricingLeavesNoBooking(t *testing.T) {
	f := newFixture(t)
	f.prices.err = pricing.ErrNoPricingDefined

	_, err := f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	if !errors.Is(err, pricing.ErrNoPricingDefined) {
		t.Fatalf("expected ErrNoPricingDefined, got %v", err)
	}

	all, err := f.repo.ListByDate(context.Background(), "2026-09-01")
	requireNoError(t, err)
	if len(all) != 0 {
		t.Fatalf("expected no bookings persisted, got %d", len(all))
	}
}

func TestCreateMultiSlotBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Three contiguous hours, priced per covered slot
	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 3, 2)
	requireNoError(t, err)

	if b.Start != minutes(14, 0) || b.End != minutes(17, 0) {
		t.Fatalf("expected 14:00-17:00, got %d-%d", b.Start, b.End)
	}
	if len(b.Slots) != 3 || b.Slots[0] != minutes(14, 0) || b.Slots[2] != minutes(16, 0) {
		t.Fatalf("expected covered slots 14:00/15:00/16:00, got %v", b.Slots)
	}
	if b.Price != 1500 {
		t.Fatalf("expected summed price 1500, got %v", b.Price)
	}

	// Any covered slot conflicts, not just the first
	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(16, 0), 1, 2)
	if !errors.Is(err, booking.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict on interior slot, got %v", err)
	}

	// The slot after the span is free
	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(17, 0), 1, 2)
	requireNoError(t, err)
}

func TestCreateBookingDurationPastClose(t *testing.T) {
	f := newFixture(t)

	// 22:00 start with two slots would run past 23:00 closing
	_, err := f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-01", minutes(22, 0), 2, 2)
	if !errors.Is(err, booking.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}

	_, err = f.service.Create(context.Background(), f.userID, f.setupID, "2026-09-01", minutes(22, 0), 0, 2)
	if !errors.Is(err, booking.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for zero duration, got %v", err)
	}
}

/* =========================
   Test 2: Concurrency
   ========================= */

func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := newFixture(t)

	const goroutines = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.service.Create(context.Background(), uuid.New(), f.setupID, "2026-09-01", minutes(18, 0), 1, 2)
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			if !errors.Is(err, booking.ErrSlotConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly one winner, got %d", success)
	}
}

/* =========================
   Test 3: Reschedule
   ========================= */

func TestRescheduleBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 3)
	requireNoError(t, err)

	moved, err := f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-02", minutes(16, 0))
	requireNoError(t, err)

	if moved.Date != "2026-09-02" || moved.Start != minutes(16, 0) || moved.End != minutes(17, 0) {
		t.Fatalf("unexpected interval: %s %d-%d", moved.Date, moved.Start, moved.End)
	}
	if moved.Revision != b.Revision+1 {
		t.Fatalf("expected revision bump to %d, got %d", b.Revision+1, moved.Revision)
	}
	// Everything else carries over, including the snapshotted price
	if moved.Price != b.Price || moved.Players != b.Players || moved.SetupID != b.SetupID {
		t.Fatal("reschedule must preserve price, players and setup")
	}

	// Old slot is free again
	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)
}

func TestRescheduleKeepsDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 2, 2)
	requireNoError(t, err)

	moved, err := f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-01", minutes(18, 0))
	requireNoError(t, err)
	if moved.End != minutes(20, 0) || len(moved.Slots) != 2 {
		t.Fatalf("expected two-slot span 18:00-20:00, got %d-%d slots %v", moved.Start, moved.End, moved.Slots)
	}

	// A span that would run past closing cannot be a target
	_, err = f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-01", minutes(22, 0))
	if !errors.Is(err, booking.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestRescheduleToOwnSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	// Same date and slot: excluded from its own conflict check
	_, err = f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-01", minutes(14, 0))
	requireNoError(t, err)
}

func TestRescheduleStaleRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	// First move bumps the revision; replaying with the stale token fails
	_, err = f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-02", minutes(16, 0))
	requireNoError(t, err)

	f.repo.mu.Lock()
	f.repo.bookings[b.ID].Revision = 99
	f.repo.mu.Unlock()

	_, err = f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-03", minutes(16, 0))
	if !errors.Is(err, booking.ErrStaleBooking) {
		t.Fatalf("expected ErrStaleBooking, got %v", err)
	}
}

func TestRescheduleNotOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	_, err = f.service.Reschedule(ctx, uuid.New(), false, b.ID, "2026-09-02", minutes(16, 0))
	if !errors.Is(err, booking.ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}

	// Admin bypasses ownership
	_, err = f.service.Reschedule(ctx, uuid.New(), true, b.ID, "2026-09-02", minutes(16, 0))
	requireNoError(t, err)
}

func TestRescheduleCancelledBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	_, err = f.service.Cancel(ctx, f.userID, false, b.ID)
	requireNoError(t, err)

	_, err = f.service.Reschedule(ctx, f.userID, false, b.ID, "2026-09-02", minutes(16, 0))
	if !errors.Is(err, booking.ErrBookingNotActive) {
		t.Fatalf("expected ErrBookingNotActive, got %v", err)
	}
}

/* =========================
   Test 4: Cancel
   ========================= */

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	cancelled, err := f.service.Cancel(ctx, f.userID, false, b.ID)
	requireNoError(t, err)
	if cancelled.Status != booking.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// Cancelled booking frees the slot for someone else
	_, err = f.service.Create(ctx, uuid.New(), f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	first, err := f.service.Cancel(ctx, f.userID, false, b.ID)
	requireNoError(t, err)

	second, err := f.service.Cancel(ctx, f.userID, false, b.ID)
	requireNoError(t, err)

	if second.Status != booking.StatusCancelled || second.Revision != first.Revision {
		t.Fatalf("second cancel must be a no-op, got status %s revision %d", second.Status, second.Revision)
	}
}

/* =========================
   Test 5: Lookup
   ========================= */

func TestCheckByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.service.Create(ctx, f.userID, f.setupID, "2026-09-01", minutes(14, 0), 1, 2)
	requireNoError(t, err)

	found, err := f.service.CheckByEmail(ctx, b.ID, "player@test.local")
	requireNoError(t, err)
	if found.ID != b.ID {
		t.Fatal("expected the created booking")
	}

	// Wrong email is indistinguishable from a missing booking
	_, err = f.service.CheckByEmail(ctx, b.ID, "other@test.local")
	if !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
