package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gamezone/gamezone-api/internal/config"
	"github.com/gamezone/gamezone-api/internal/domain/auth"
	"github.com/gamezone/gamezone-api/internal/domain/booking"
	"github.com/gamezone/gamezone-api/internal/domain/override"
	"github.com/gamezone/gamezone-api/internal/domain/pricing"
	"github.com/gamezone/gamezone-api/internal/domain/setup"
	"github.com/gamezone/gamezone-api/internal/domain/user"
	"github.com/gamezone/gamezone-api/internal/middleware"
	"github.com/gamezone/gamezone-api/internal/pkg/database"
	"github.com/gamezone/gamezone-api/internal/pkg/jwt"
	pkgresponse "github.com/gamezone/gamezone-api/internal/pkg/response"
	"github.com/gamezone/gamezone-api/internal/pkg/timegrid"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting GameZone API")

	grid, err := timegrid.NewConfig(cfg.OpenTime, cfg.CloseTime, cfg.SlotMinutes)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid operating grid configuration")
	}

	mongo, err := database.NewMongo(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongo.Close()

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(mongo.Users)
	setupRepo := setup.NewRepository(mongo.Setups)
	bookingRepo := booking.NewRepository(mongo.Bookings)
	pricingRepo := pricing.NewRepository(mongo.PricingRules)
	overrideRepo := override.NewRepository(mongo.Overrides)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService)
	setupService := setup.NewService(setupRepo)
	overrideService := override.NewService(overrideRepo)
	pricingService := pricing.NewService(pricingRepo, overrideRepo)

	conflictIndex := booking.NewConflictIndex(bookingRepo, overrideRepo, grid)

	// ---------- Adapters ----------
	setupDirectory := &setupDirectoryAdapter{service: setupService}
	userDirectory := &userDirectoryAdapter{repo: userRepo}

	availabilityService := booking.NewAvailabilityService(
		grid, conflictIndex, setupDirectory, pricingService, redis, cfg.AvailabilityCacheTTL)
	bookingService := booking.NewService(
		bookingRepo, conflictIndex, setupDirectory, pricingService, userDirectory, availabilityService, grid)

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	setupHandler := setup.NewHandler(setupService)
	overrideHandler := override.NewHandler(overrideService)
	pricingHandler := pricing.NewHandler(pricingService)
	bookingHandler := booking.NewHandler(bookingService, availabilityService)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/setups", setupHandler.Routes(authMiddleware, adminMiddleware))
		r.Mount("/overrides", overrideHandler.Routes(authMiddleware, adminMiddleware))
		r.Mount("/pricing", pricingHandler.Routes(authMiddleware, adminMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware, adminMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/availability", bookingHandler.Availability)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}

// Adapter implementations to bridge interface mismatches

// setupDirectoryAdapter adapts setup.Service to booking.SetupDirectory
type setupDirectoryAdapter struct {
	service *setup.Service
}

func (a *setupDirectoryAdapter) GetSetup(ctx context.Context, id uuid.UUID) (*booking.SetupInfo, error) {
	st, err := a.service.GetByID(ctx, id)
	if err != nil {
		if err == setup.ErrSetupNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking.SetupInfo{ID: st.ID, Active: st.Active}, nil
}

// userDirectoryAdapter adapts user.Repository to booking.UserDirectory
type userDirectoryAdapter struct {
	repo user.Repository
}

func (a *userDirectoryAdapter) GetContact(ctx context.Context, id uuid.UUID) (*booking.Contact, error) {
	u, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return &booking.Contact{Name: u.Name, Email: u.Email}, nil
}
