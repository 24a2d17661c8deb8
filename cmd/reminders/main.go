package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/HTM-BookingService/internal/config"
	"github.com/m04kA/HTM-BookingService/internal/infra/lock"
	availabilityRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/booking"
	settingsRepo "github.com/m04kA/HTM-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/HTM-BookingService/internal/integrations/email"
	profileServiceClient "github.com/m04kA/HTM-BookingService/internal/integrations/profileservice"
	notificationsService "github.com/m04kA/HTM-BookingService/internal/service/notifications"
	settingsService "github.com/m04kA/HTM-BookingService/internal/service/settings"
	runReminderPassUC "github.com/m04kA/HTM-BookingService/internal/usecase/run_reminder_pass"
	"github.com/m04kA/HTM-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HTM-BookingService/pkg/logger"
	"github.com/m04kA/HTM-BookingService/pkg/txmanager"
)

// passTimeout верхняя граница одного прохода, запущенного из cron
const passTimeout = 10 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return 1
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping database: %v", err)
		return 1
	}

	wrappedDB := dbmetrics.Wrap(db, nil)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)

	sender, err := email.New(ctx, email.Config{
		Provider:       cfg.Email.Provider,
		From:           email.From{Email: cfg.Email.FromEmail, Name: cfg.Email.FromName},
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		SendGridHost:   cfg.Email.SendGridHost,
		SESRegion:      cfg.Email.SESRegion,
	}, log)
	if err != nil {
		log.Error("Failed to initialize email sender: %v", err)
		return 1
	}

	notificationSvc, err := notificationsService.NewService(
		sender,
		profileClient,
		notificationsService.Config{PublicBaseURL: cfg.Booking.PublicBaseURL},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize notifications: %v", err)
		return 1
	}
	settingsSvc := settingsService.NewService(
		settingsRepo.NewRepository(wrappedDB),
		availabilityRepo.NewRepository(wrappedDB),
		profileClient,
		txMgr,
		log,
	)

	var locker runReminderPassUC.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		locker = lock.NewLocker(redisClient)
	}

	useCase := runReminderPassUC.NewUseCase(
		bookingRepository,
		settingsSvc,
		notificationSvc,
		locker,
		nil,
		runReminderPassUC.Config{LockTTL: cfg.Reminders.LockTTL()},
		log,
	)

	summary, err := useCase.Execute(ctx)
	if err != nil {
		log.Error("Reminder pass failed: %v", err)
		return 1
	}

	log.Info("Reminder pass finished: 24h=%d, 1h=%d, errors=%d",
		summary.Reminders24hSent, summary.Reminders1hSent, len(summary.Errors))
	for _, e := range summary.Errors {
		log.Warn("Reminder pass error: %s", e)
	}
	return 0
}
