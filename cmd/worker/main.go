package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetlink/fleetlink/config"
	"github.com/fleetlink/fleetlink/internal/kafka"
	"github.com/fleetlink/fleetlink/internal/logger"
	"github.com/fleetlink/fleetlink/internal/notify"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/fleetlink/fleetlink/internal/ride"
	"github.com/fleetlink/fleetlink/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	vehicleRepo := repository.NewVehicleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		vehicleRepo,
		producer,
		ride.EstimateDuration,
		cfg.Kafka.BookingEventsTopic,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	notifier := notify.NewNotifier(log)

	go func() {
		if err := consumer.Consume(ctx, notifier.Send); err != nil {
			log.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	log.Info("worker started",
		zap.String("notifications_topic", cfg.Kafka.NotificationsTopic),
		zap.Int("sweep_minutes", cfg.Worker.CompletionSweepMinutes),
	)

	for {
		select {
		case <-sweepTicker.C:
			completed, err := bookingService.CompleteFinishedBookings(ctx)
			if err != nil {
				log.Error("completion sweep", zap.Error(err))
				continue
			}
			if len(completed) > 0 {
				log.Info("completed bookings", zap.Int("count", len(completed)))
			}
		case <-ctx.Done():
			log.Info("shutting down")
			return
		}
	}
}
