package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gamezone/gamezone-api/internal/domain/user"
	"github.com/gamezone/gamezone-api/internal/pkg/jwt"
	"github.com/gamezone/gamezone-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	users user.Repository
	jwt   *jwt.Service
}

// NewService creates auth service
func NewService(users user.Repository, jwtService *jwt.Service) *Service {
	return &Service{users: users, jwt: jwtService}
}

// Register creates a new user account and returns an access token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*user.User, string, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         user.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if err == user.ErrEmailTaken {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// AccessTTLSeconds returns the access token lifetime, surfaced to clients as
// an expiry hint alongside the token
func (s *Service) AccessTTLSeconds() int64 {
	return int64(s.jwt.GetAccessTTL().Seconds())
}

// Login verifies credentials and returns an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the account for an authenticated principal
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// EnsureAdmin seeds the administrator account from configuration. Called once
// at startup; a no-op when the account already exists or config is empty.
func (s *Service) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	if email == "" || rawPassword == "" {
		log.Warn().Msg("Admin credentials not configured, skipping admin seed")
		return nil
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin() {
			log.Warn().Str("email", email).
				Msg("Configured admin email belongs to a non-admin account, not seeding")
		}
		return nil
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return err
	}

	admin := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         user.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// Another instance may have seeded first
		if err == user.ErrEmailTaken {
			return nil
		}
		return err
	}

	log.Info().Str("email", email).Msg("Seeded admin account")
	return nil
}
