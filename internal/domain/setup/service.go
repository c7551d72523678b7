package setup

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service handles setup catalog business logic
type Service struct {
	repo Repository
}

// NewService creates setup service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new station. Names are unique across the catalog.
func (s *Service) Create(ctx context.Context, req *CreateSetupRequest) (*Setup, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	now := time.Now().UTC()
	st := &Setup{
		ID:        uuid.New(),
		Name:      req.Name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// GetByID returns one setup
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Setup, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrSetupNotFound
	}
	return st, nil
}

// Update renames and/or retires a setup. Retire is a soft flag: bookings keep
// referencing the document.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateSetupRequest) (*Setup, error) {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != st.Name {
		other, err := s.repo.GetByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrNameTaken
		}
		st.Name = *req.Name
	}
	if req.Active != nil {
		st.Active = *req.Active
	}
	st.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// List returns setups; non-admin callers see active stations only
func (s *Service) List(ctx context.Context, includeRetired bool) ([]*Setup, error) {
	return s.repo.List(ctx, !includeRetired)
}
