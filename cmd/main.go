package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingWizardHandler "github.com/coachhq/booking-service/internal/api/handlers/booking_wizard"
	cancelBookingHandler "github.com/coachhq/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/coachhq/booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/coachhq/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/coachhq/booking-service/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/coachhq/booking-service/internal/api/handlers/get_calendar"
	getCoachBookingsHandler "github.com/coachhq/booking-service/internal/api/handlers/get_coach_bookings"
	getUserBookingsHandler "github.com/coachhq/booking-service/internal/api/handlers/get_user_bookings"
	manageAvailabilityHandler "github.com/coachhq/booking-service/internal/api/handlers/manage_availability"
	transitionBookingHandler "github.com/coachhq/booking-service/internal/api/handlers/transition_booking"
	"github.com/coachhq/booking-service/internal/api/middleware"
	"github.com/coachhq/booking-service/internal/config"
	availabilityRepo "github.com/coachhq/booking-service/internal/infra/storage/availability"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
	coachServiceClient "github.com/coachhq/booking-service/internal/integrations/coachservice"
	notifyServiceClient "github.com/coachhq/booking-service/internal/integrations/notifyservice"
	paymentServiceClient "github.com/coachhq/booking-service/internal/integrations/paymentservice"
	availabilityService "github.com/coachhq/booking-service/internal/service/availability"
	bookingsService "github.com/coachhq/booking-service/internal/service/bookings"
	commitBookingUC "github.com/coachhq/booking-service/internal/usecase/commit_booking"
	createBookingUC "github.com/coachhq/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
	transitionBookingUC "github.com/coachhq/booking-service/internal/usecase/transition_booking"
	"github.com/coachhq/booking-service/internal/wizard"
	"github.com/coachhq/booking-service/pkg/dbmetrics"
	"github.com/coachhq/booking-service/pkg/logger"
	"github.com/coachhq/booking-service/pkg/metrics"
	"github.com/coachhq/booking-service/pkg/simpletxmanager"
	"github.com/coachhq/booking-service/pkg/txmanager"
)

const janitorInterval = time.Minute

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	coachClient := coachServiceClient.NewClient(
		cfg.CoachService.URL,
		time.Duration(cfg.CoachService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CoachService=%s, PaymentService=%s, NotifyService=%s)",
		cfg.CoachService.URL, cfg.PaymentService.URL, cfg.NotifyService.URL)

	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		transitionBookingUseCase,
		notifyClient,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		coachClient,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		coachClient,
		txMgr,
		log,
	)
	commitBookingUseCase := commitBookingUC.NewUseCase(
		createBookingUseCase,
		bookingRepository,
		paymentClient,
		notifyClient,
		log,
	)

	sessionStore := wizard.NewStore(time.Duration(cfg.Wizard.SessionTTLMinutes) * time.Minute)
	stopJanitorCh := make(chan struct{})
	sessionStore.StartJanitor(janitorInterval, stopJanitorCh)
	wizardSvc := wizard.NewService(
		sessionStore,
		getAvailableSlotsUseCase,
		commitBookingUseCase,
		coachClient,
		log,
	)
	log.Info("Wizard session store started (ttl=%dm)", cfg.Wizard.SessionTTLMinutes)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCoachBookings := getCoachBookingsHandler.NewHandler(bookingSvc, log)
	getCalendar := getCalendarHandler.NewHandler(bookingSvc, log)
	manageAvailability := manageAvailabilityHandler.NewHandler(availabilitySvc, log)
	bookingWizard := bookingWizardHandler.NewHandler(wizardSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/coaches/{coachId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/coaches/{coachId}/availability",
		manageAvailability.HandleListRules).Methods(http.MethodGet)

	// Protected routes require the X-User-ID header.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Bookings.
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/calendar", getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/coaches/{coachId}/bookings", getCoachBookings.Handle).Methods(http.MethodGet)

	// Availability management (coach only).
	protected.HandleFunc("/coaches/{coachId}/availability/rules",
		manageAvailability.HandleCreateRule).Methods(http.MethodPost)
	protected.HandleFunc("/coaches/{coachId}/availability/rules/{ruleId}",
		manageAvailability.HandleDeactivateRule).Methods(http.MethodDelete)
	protected.HandleFunc("/coaches/{coachId}/availability/blackouts",
		manageAvailability.HandleCreateBlackout).Methods(http.MethodPost)
	protected.HandleFunc("/coaches/{coachId}/availability/blackouts",
		manageAvailability.HandleListBlackouts).Methods(http.MethodGet)

	// Booking wizard sessions.
	protected.HandleFunc("/wizard/sessions", bookingWizard.HandleStart).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}", bookingWizard.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/wizard/sessions/{sessionId}/advance", bookingWizard.HandleAdvance).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}/back", bookingWizard.HandleBack).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}", bookingWizard.HandleClose).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopJanitorCh)
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
