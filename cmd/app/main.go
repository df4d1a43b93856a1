package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetlink/fleetlink/config"
	"github.com/fleetlink/fleetlink/internal/bootstrap"
	"github.com/fleetlink/fleetlink/internal/cache"
	"github.com/fleetlink/fleetlink/internal/kafka"
	"github.com/fleetlink/fleetlink/internal/logger"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/fleetlink/fleetlink/internal/ride"
	"github.com/fleetlink/fleetlink/internal/service/booking"
	"github.com/fleetlink/fleetlink/internal/service/vehicles"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.VehiclesTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	vehicleRepo := repository.NewVehicleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	vehicleService := vehicles.NewVehicleService(vehicleRepo, bookingRepo, redisCache, ride.EstimateDuration)
	bookingService := booking.NewBookingService(
		bookingRepo,
		vehicleRepo,
		producer,
		ride.EstimateDuration,
		cfg.Kafka.BookingEventsTopic,
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	log.Info("starting http server", zap.String("address", cfg.HTTP.Address))
	if err := bootstrap.Run(ctx, cfg, log, vehicleService, bookingService); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
