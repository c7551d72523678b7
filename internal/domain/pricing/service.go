package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/domain/override"
	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

// Service resolves the price for a (setup, slot) pair. An active
// price_override beats the base rule; a band beats the flat base price.
type Service struct {
	repo      Repository
	overrides override.Store
}

// NewService creates pricing service
func NewService(repo Repository, overrides override.Store) *Service {
	return &Service{repo: repo, overrides: overrides}
}

// Resolve returns the price in effect for the setup and slot on the given
// date. The booking path snapshots the result into the booking; later rule or
// override edits never change it.
func (s *Service) Resolve(ctx context.Context, setupID uuid.UUID, date string, slot timegrid.Slot) (float64, error) {
	active, err := s.overrides.ActiveForDate(ctx, setupID, date)
	if err != nil {
		return 0, err
	}
	for _, o := range active {
		if o.Kind == override.KindPriceOverride && o.Price != nil {
			return *o.Price, nil
		}
	}

	rule, err := s.repo.GetBySetup(ctx, setupID)
	if err != nil {
		return 0, err
	}
	if rule == nil {
		return 0, ErrNoPricingDefined
	}

	for _, band := range rule.Bands {
		if band.Contains(slot.Start) {
			return band.Price, nil
		}
	}
	return rule.BasePrice, nil
}

// SetRule upserts the base pricing for a setup
func (s *Service) SetRule(ctx context.Context, setupID uuid.UUID, req *SetRuleRequest) (*Rule, error) {
	rule := &Rule{
		ID:        uuid.New(),
		SetupID:   setupID,
		BasePrice: req.BasePrice,
		UpdatedAt: time.Now().UTC(),
	}
	for _, b := range req.Bands {
		start, err := timegrid.ParseClock(b.Start)
		if err != nil {
			return nil, err
		}
		end, err := timegrid.ParseClock(b.End)
		if err != nil {
			return nil, err
		}
		rule.Bands = append(rule.Bands, Band{Start: start, End: end, Price: b.Price})
	}

	// The store keeps the existing rule id when one is already present
	stored, err := s.repo.Upsert(ctx, rule)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// List returns all pricing rules
func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.List(ctx)
}
