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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/cancel_booking"
	getAvailableDatesHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_booking"
	getBookingSettingsHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_booking_settings"
	getTherapistBookingsHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_therapist_bookings"
	getWeeklyAvailabilityHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/get_weekly_availability"
	lookupBookingHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/lookup_booking"
	replaceWeeklyAvailabilityHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/replace_weekly_availability"
	runRemindersHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/run_reminders"
	submitBookingHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/submit_booking"
	updateBookingSettingsHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/update_booking_settings"
	updateBookingStatusHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/update_booking_status"
	verifyBookingHandler "github.com/m04kA/HTM-BookingService/internal/api/handlers/verify_booking"
	"github.com/m04kA/HTM-BookingService/internal/api/middleware"
	"github.com/m04kA/HTM-BookingService/internal/config"
	"github.com/m04kA/HTM-BookingService/internal/domain"
	"github.com/m04kA/HTM-BookingService/internal/infra/lock"
	availabilityRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	calendarConnectionRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/calendarconnection"
	settingsRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/settings"
	verificationRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/verification"
	"github.com/m04kA/HTM-BookingService/internal/integrations/calendar"
	"github.com/m04kA/HTM-BookingService/internal/integrations/email"
	profileServiceClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	availabilityService "github.com/m04kA/HTM-BookingService/internal/service/availability"
	bookingsService "github.com/m04kA/HTM-BookingService/internal/service/bookings"
	notificationsService "github.com/m04kA/HTM-BookingService/internal/service/notifications"
	settingsService "github.com/m04kA/HTM-BookingService/internal/service/settings"
	getAvailableDatesUC "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/m04kA/HTM-BookingService/internal/usecase/get_available_slots"
	runReminderPassUC "github.com/m04kA/HTM-BookingService/internal/usecase/run_reminder_pass"
	submitBookingUC "github.com/m04kA/HTM-BookingService/internal/usecase/submit_booking"
	verifyBookingUC "github.com/m04kA/HTM-BookingService/internal/usecase/verify_booking"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/logger"
	"github.com/m04kA/HTM-BookingService/pkg/metrics"
	"github.com/m04kA/HTM-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting HTM-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает с nil collector
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	verificationRepository := verificationRepo.NewRepository(wrappedDB)
	connectionRepository := calendarConnectionRepo.NewRepository(wrappedDB)

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Внешние календари: nil источник означает "без внешней занятости"
	var busySource availabilityService.BusySource
	if cfg.Calendar.Enabled {
		source := calendar.NewSource(
			connectionRepository,
			time.Duration(cfg.Calendar.Timeout)*time.Second,
			log,
			calendar.RealTimeProvider{},
		)
		source.Register(domain.CalendarGoogle, calendar.NewGoogleProvider(""),
			calendar.GoogleOAuthConfig(cfg.Calendar.GoogleClientID, cfg.Calendar.GoogleClientSecret))
		source.Register(domain.CalendarMicrosoft, calendar.NewMicrosoftProvider(""),
			calendar.MicrosoftOAuthConfig(cfg.Calendar.MicrosoftClientID, cfg.Calendar.MicrosoftClientSecret, cfg.Calendar.MicrosoftTenant))
		busySource = source
		log.Info("Calendar busy-time source enabled (timeout=%ds)", cfg.Calendar.Timeout)
	}

	sender, err := email.New(context.Background(), email.Config{
		Provider:       cfg.Email.Provider,
		From:           email.From{Email: cfg.Email.FromEmail, Name: cfg.Email.FromName},
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		SendGridHost:   cfg.Email.SendGridHost,
		SESRegion:      cfg.Email.SESRegion,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender: %v", err)
	}
	log.Info("Email sender initialized (provider=%s)", cfg.Email.Provider)

	// Инициализируем сервисы
	notificationSvc, err := notificationsService.NewService(
		sender,
		profileClient,
		notificationsService.Config{PublicBaseURL: cfg.Booking.PublicBaseURL},
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize notifications: %v", err)
	}
	settingsSvc := settingsService.NewService(
		settingsRepository,
		availabilityRepository,
		profileClient,
		txMgr,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		settingsSvc,
		profileClient,
		notificationSvc,
		bookingsService.RealTimeProvider{},
		log,
	)
	engine := availabilityService.NewEngine(
		availabilityRepository,
		bookingRepository,
		busySource,
		log,
	)

	// Блокировка напоминаний в Redis (если включена)
	var reminderLocker runReminderPassUC.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable, reminder passes will run without locks: %v", err)
		}
		reminderLocker = lock.NewLocker(redisClient)
		log.Info("Reminder locks enabled (redis=%s)", cfg.Redis.Addr)
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		engine,
		settingsSvc,
		profileClient,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(
		engine,
		settingsSvc,
		profileClient,
		log,
	)
	submitBookingUseCase := submitBookingUC.NewUseCase(
		bookingRepository,
		verificationRepository,
		engine,
		settingsSvc,
		profileClient,
		notificationSvc,
		metricsCollector,
		txMgr,
		cfg.Booking.VerificationTTL(),
		log,
	)
	verifyBookingUseCase := verifyBookingUC.NewUseCase(
		verificationRepository,
		bookingRepository,
		settingsSvc,
		notificationSvc,
		txMgr,
		log,
	)
	runReminderPassUseCase := runReminderPassUC.NewUseCase(
		bookingRepository,
		settingsSvc,
		notificationSvc,
		reminderLocker,
		metricsCollector,
		runReminderPassUC.Config{LockTTL: cfg.Reminders.LockTTL()},
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	verifyBooking := verifyBookingHandler.NewHandler(verifyBookingUseCase, log)
	lookupBooking := lookupBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getTherapistBookings := getTherapistBookingsHandler.NewHandler(bookingSvc, log)
	getBookingSettings := getBookingSettingsHandler.NewHandler(settingsSvc, log)
	updateBookingSettings := updateBookingSettingsHandler.NewHandler(settingsSvc, log)
	getWeeklyAvailability := getWeeklyAvailabilityHandler.NewHandler(settingsSvc, log)
	replaceWeeklyAvailability := replaceWeeklyAvailabilityHandler.NewHandler(settingsSvc, log)
	runReminders := runRemindersHandler.NewHandler(runReminderPassUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	// Доступные слоты на дату и даты месяца
	public.HandleFunc("/therapists/{therapistId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/therapists/{therapistId}/available-dates", getAvailableDates.Handle).Methods(http.MethodGet)

	// Заявка посетителя и подтверждение email
	public.HandleFunc("/therapists/{therapistId}/bookings", submitBooking.Handle).Methods(http.MethodPost)
	public.HandleFunc("/bookings/verify", verifyBooking.Handle).Methods(http.MethodPost)

	// Доступ посетителя по visitor token
	public.HandleFunc("/bookings/lookup", lookupBooking.Handle).Methods(http.MethodGet)

	// Отмена: посетитель по токену или терапевт по X-User-ID
	public.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Публичные настройки бронирования
	public.HandleFunc("/therapists/{therapistId}/booking-settings", getBookingSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/therapists/{therapistId}/bookings", getTherapistBookings.Handle).Methods(http.MethodGet)

	// --- Настройки терапевта ---
	protected.HandleFunc("/therapists/{therapistId}/booking-settings", updateBookingSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/therapists/{therapistId}/weekly-availability", getWeeklyAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/therapists/{therapistId}/weekly-availability", replaceWeeklyAvailability.Handle).Methods(http.MethodPut)

	// ============================================================
	// INTERNAL ROUTES (требуют X-Internal-Token header)
	// ============================================================

	internal := api.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.InternalToken(cfg.Reminders.InternalToken))

	// Проход напоминаний (вызывается планировщиком)
	internal.HandleFunc("/reminders/run", runReminders.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
