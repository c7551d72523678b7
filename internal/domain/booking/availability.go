package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// SlotState is the availability state of one slot
type SlotState string

const (
	SlotFree     SlotState = "free"
	SlotOccupied SlotState = "occupied"
	SlotBlocked  SlotState = "blocked"
)

// SlotAvailability is one row of the free/busy view
type SlotAvailability struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Price float64   `json:"price"`
	State SlotState `json:"state"`
}

// AvailabilityService composes the grid, conflict index and pricing engine
// into the free/busy view. Results may be served from a short-TTL redis
// cache; the cache is advisory only and the write path never reads it.
type AvailabilityService struct {
	grid      timegrid.Config
	conflicts *ConflictIndex
	setups    SetupDirectory
	prices    PriceResolver
	cache     *redis.Client
	cacheTTL  time.Duration
}

// NewAvailabilityService creates the availability resolver. cache may be nil.
func NewAvailabilityService(grid timegrid.Config, conflicts *ConflictIndex, setups SetupDirectory, prices PriceResolver, cache *redis.Client, cacheTTL time.Duration) *AvailabilityService {
	return &AvailabilityService{
		grid:      grid,
		conflicts: conflicts,
		setups:    setups,
		prices:    prices,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func cacheKey(setupID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s", setupID, date)
}

// Resolve returns the ordered slot sequence for the setup/date with state and
// price per slot
func (s *AvailabilityService) Resolve(ctx context.Context, setupID uuid.UUID, date string) ([]SlotAvailability, error) {
	if cached := s.fromCache(ctx, setupID, date); cached != nil {
		return cached, nil
	}

	info, err := s.setups.GetSetup(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrSetupNotFound
	}

	sched, err := s.conflicts.Schedule(ctx, setupID, date, uuid.Nil)
	if err != nil {
		return nil, err
	}

	slots := s.grid.Slots()
	out := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		price, err := s.prices.Resolve(ctx, setupID, date, slot)
		if err != nil {
			return nil, err
		}

		iv := Interval{Start: slot.Start, End: slot.End}
		state := SlotFree
		switch {
		case OverlapsAny(iv, sched.Booked):
			state = SlotOccupied
		case !info.Active || OverlapsAny(iv, sched.Blocked):
			state = SlotBlocked
		}

		out = append(out, SlotAvailability{
			Start: timegrid.FormatClock(slot.Start),
			End:   timegrid.FormatClock(slot.End),
			Price: price,
			State: state,
		})
	}

	s.toCache(ctx, setupID, date, out)
	return out, nil
}

// Invalidate drops the cached view for a setup/date. Called after every
// successful write that touches the key.
func (s *AvailabilityService) Invalidate(ctx context.Context, setupID uuid.UUID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(setupID, date)).Err(); err != nil {
		log.Warn().Err(err).Str("setup_id", setupID.String()).Str("date", date).
			Msg("Failed to invalidate availability cache")
	}
}

func (s *AvailabilityService) fromCache(ctx context.Context, setupID uuid.UUID, date string) []SlotAvailability {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(setupID, date)).Bytes()
	if err != nil {
		return nil
	}
	var out []SlotAvailability
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (s *AvailabilityService) toCache(ctx context.Context, setupID uuid.UUID, date string, view []SlotAvailability) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(setupID, date), raw, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to cache availability")
	}
}
