package override

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service handles override business logic
type Service struct {
	repo Repository
}

// NewService creates override service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records an admin exception for a setup over a date range
func (s *Service) Create(ctx context.Context, req *CreateOverrideRequest) (*Override, error) {
	if req.DateFrom > req.DateTo {
		return nil, ErrInvalidDateRange
	}

	kind := Kind(req.Kind)
	if kind == KindPriceOverride && req.Price == nil {
		return nil, ErrPriceRequired
	}

	setupID, err := uuid.Parse(req.SetupID)
	if err != nil {
		return nil, err
	}

	o := &Override{
		ID:        uuid.New(),
		SetupID:   setupID,
		Kind:      kind,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Reason:    req.Reason,
		CreatedAt: time.Now().UTC(),
	}
	if kind == KindPriceOverride {
		o.Price = req.Price
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an override
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// List returns all overrides
func (s *Service) List(ctx context.Context) ([]*Override, error) {
	return s.repo.List(ctx)
}
