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

	"github.com/venuedesk/venuedesk-api/internal/config"
	"github.com/venuedesk/venuedesk-api/internal/domain/activity"
	"github.com/venuedesk/venuedesk-api/internal/domain/booking"
	"github.com/venuedesk/venuedesk-api/internal/domain/payment"
	"github.com/venuedesk/venuedesk-api/internal/domain/pricing"
	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
	"github.com/venuedesk/venuedesk-api/internal/middleware"
	"github.com/venuedesk/venuedesk-api/internal/pkg/database"
	"github.com/venuedesk/venuedesk-api/internal/pkg/jwt"
	"github.com/venuedesk/venuedesk-api/internal/pkg/metrics"
	pkgresponse "github.com/venuedesk/venuedesk-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting VenueDesk API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	venueRepo := venue.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	activityRepo := activity.NewRepository(db)

	// ---------- WebSocket hub ----------
	bookingHub := booking.NewHub()
	go bookingHub.Run()
	metrics.RegisterWSConnections(bookingHub.ConnectionCount)

	// ---------- Adapters ----------
	activityLog := &activityLogAdapter{repo: activityRepo}
	bookingStore := &paymentBookingAdapter{repo: bookingRepo}

	// ---------- Services ----------
	availabilityCache := booking.NewAvailabilityCache(redis)
	bookingService := booking.NewService(bookingRepo, venueRepo, activityLog, availabilityCache, bookingHub)
	paymentService := payment.NewService(paymentRepo, bookingStore, activityLog)
	calculator := pricing.NewCalculator(pricing.Config{
		WeekendMultiplier:     cfg.WeekendSurchargeMultiplier,
		ExtraGuestFee:         cfg.ExtraGuestFee,
		GuestThreshold:        cfg.GuestSurchargeThreshold,
		DefaultDepositPercent: cfg.DefaultDepositPercent,
	})

	// ---------- Handlers ----------
	venueHandler := venue.NewHandler(venueRepo, cfg.DefaultBufferMinutes)
	bookingHandler := booking.NewHandler(bookingService, bookingHub)
	paymentHandler := payment.NewHandler(paymentService)
	pricingHandler := pricing.NewHandler(calculator, venueRepo)
	activityHandler := activity.NewHandler(activityRepo)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.RequireRole("admin")

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
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/venues", venueHandler.Routes(authMiddleware, adminMiddleware))
		r.Mount("/venues/{id}/activity", activityHandler.Routes(authMiddleware))

		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
		r.Mount("/booking-drafts", bookingHandler.DraftRoutes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/availability", bookingHandler.CheckAvailability)
			r.Put("/bookings/{id}/payment-status", paymentHandler.ReconcileOne)
			r.Put("/bookings/payment-status", paymentHandler.ReconcileAll)
		})

		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
		r.Mount("/pricing", pricingHandler.Routes())
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

	bookingHub.Shutdown()
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

// activityLogAdapter adapts activity.Repository to the fire-and-forget
// loggers the booking and payment services expect. Audit failures are
// logged, never propagated.
type activityLogAdapter struct {
	repo activity.Repository
}

func (a *activityLogAdapter) Log(ctx context.Context, venueID uuid.UUID, action string, userID uuid.UUID) {
	entry := &activity.Entry{
		VenueID: venueID,
		Action:  action,
		UserID:  uuid.NullUUID{UUID: userID, Valid: userID != uuid.Nil},
	}
	if err := a.repo.Append(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("venue_id", venueID.String()).
			Str("action", action).
			Msg("Failed to append activity log entry")
	}
}

// paymentBookingAdapter adapts booking.Repository to payment.BookingStore
type paymentBookingAdapter struct {
	repo booking.Repository
}

func (a *paymentBookingAdapter) GetFinancials(ctx context.Context, bookingID uuid.UUID) (*payment.BookingFinancials, error) {
	b, err := a.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return &payment.BookingFinancials{
		ID:                b.ID,
		VenueID:           b.VenueID,
		Amount:            b.Amount,
		DepositAmount:     b.DepositAmount,
		DepositPercentage: b.DepositPercentage,
		Cancelled:         b.IsCancelled(),
	}, nil
}

func (a *paymentBookingAdapter) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status payment.Status, isFullyPaid bool) error {
	return a.repo.UpdatePaymentStatus(ctx, bookingID, status, isFullyPaid)
}

func (a *paymentBookingAdapter) ListActiveFinancials(ctx context.Context) ([]*payment.BookingFinancials, error) {
	bookings, err := a.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*payment.BookingFinancials, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, &payment.BookingFinancials{
			ID:                b.ID,
			VenueID:           b.VenueID,
			Amount:            b.Amount,
			DepositAmount:     b.DepositAmount,
			DepositPercentage: b.DepositPercentage,
			Cancelled:         b.IsCancelled(),
		})
	}
	return out, nil
}
