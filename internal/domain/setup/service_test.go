package setup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gamezone/gamezone-api/internal/domain/setup"
)

type fakeSetupRepo struct {
	byID map[uuid.UUID]*setup.Setup
}

func newFakeSetupRepo() *fakeSetupRepo {
	return &fakeSetupRepo{byID: make(map[uuid.UUID]*setup.Setup)}
}

func (f *fakeSetupRepo) Create(_ context.Context, s *setup.Setup) error {
	for _, existing := range f.byID {
		if existing.Name == s.Name {
			return setup.ErrNameTaken
		}
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSetupRepo) GetByID(_ context.Context, id uuid.UUID) (*setup.Setup, error) {
	return f.byID[id], nil
}

func (f *fakeSetupRepo) GetByName(_ context.Context, name string) (*setup.Setup, error) {
	for _, existing := range f.byID {
		if existing.Name == name {
			return existing, nil
		}
	}
	return nil, nil
}

func (f *fakeSetupRepo) Update(_ context.Context, s *setup.Setup) error {
	if _, ok := f.byID[s.ID]; !ok {
		return setup.ErrSetupNotFound
	}
	for _, existing := range f.byID {
		if existing.ID != s.ID && existing.Name == s.Name {
			return setup.ErrNameTaken
		}
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSetupRepo) List(_ context.Context, activeOnly bool) ([]*setup.Setup, error) {
	var out []*setup.Setup
	for _, s := range f.byID {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

/* ==== Test 1: CreateRejectsDuplicateName ==== */

func TestCreateRejectsDuplicateName(t *testing.T) {
	service := setup.NewService(newFakeSetupRepo())
	ctx := context.Background()

	st, err := service.Create(ctx, &setup.CreateSetupRequest{Name: "PS5 Station 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Active {
		t.Fatal("a new setup must start active")
	}

	_, err = service.Create(ctx, &setup.CreateSetupRequest{Name: "PS5 Station 1"})
	if !errors.Is(err, setup.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

/* ==== Test 2: UpdateRenameCollision ==== */

func TestUpdateRenameCollision(t *testing.T) {
	service := setup.NewService(newFakeSetupRepo())
	ctx := context.Background()

	first, err := service.Create(ctx, &setup.CreateSetupRequest{Name: "PS5 Station 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Create(ctx, &setup.CreateSetupRequest{Name: "PC Rig 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.Update(ctx, second.ID, &setup.UpdateSetupRequest{Name: strPtr("PS5 Station 1")})
	if !errors.Is(err, setup.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// Re-submitting the current name is not a collision
	st, err := service.Update(ctx, first.ID, &setup.UpdateSetupRequest{Name: strPtr("PS5 Station 1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Name != "PS5 Station 1" {
		t.Fatalf("unexpected name %q", st.Name)
	}
}

/* ==== Test 3: RetireHidesFromDefaultList ==== */

func TestRetireHidesFromDefaultList(t *testing.T) {
	service := setup.NewService(newFakeSetupRepo())
	ctx := context.Background()

	st, err := service.Create(ctx, &setup.CreateSetupRequest{Name: "PS5 Station 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	retired, err := service.Update(ctx, st.ID, &setup.UpdateSetupRequest{Active: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retired.Active {
		t.Fatal("setup must be retired")
	}

	visible, err := service.List(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("retired setups must be hidden by default, got %d", len(visible))
	}

	all, err := service.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the retired setup in the admin listing, got %d", len(all))
	}

	// Retired setups stay addressable by id
	got, err := service.GetByID(ctx, st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Active {
		t.Fatal("retire must persist")
	}
}

/* ==== Test 4: GetByIDUnknown ==== */

func TestGetByIDUnknown(t *testing.T) {
	service := setup.NewService(newFakeSetupRepo())

	_, err := service.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, setup.ErrSetupNotFound) {
		t.Fatalf("expected ErrSetupNotFound, got %v", err)
	}
}
