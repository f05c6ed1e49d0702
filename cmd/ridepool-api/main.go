// README: Entry point; loads config, wires services, starts HTTP server and the matching scheduler.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ridepool/internal/config"
	httptransport "ridepool/internal/http"
	"ridepool/internal/infra"
	"ridepool/internal/modules/booking"
	"ridepool/internal/modules/dispatch"
	"ridepool/internal/modules/fleet"
	"ridepool/internal/modules/location"
	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("ridepool-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.DB.Migrate {
		dir := cfg.DB.Migrations
		if !filepath.IsAbs(dir) {
			if root, err := infra.FindRepoRoot(); err == nil {
				dir = filepath.Join(root, dir)
			}
		}
		if err := infra.ApplyMigrations(ctx, dbPool, dir); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dir", dir))
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()

	kafkaWriter := infra.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if kafkaWriter != nil {
		defer func() { _ = kafkaWriter.Close() }()
	} else {
		logger.Info("kafka brokers not configured; ride events disabled")
	}

	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore, cfg.Pricing)

	bookingStore := booking.NewStore(dbPool, cfg.Pricing.Currency)
	bookingSvc := booking.NewService(bookingStore, pricingSvc, cfg.Matching.VehicleCapacity, logger.Named("booking"))

	coordinator := dispatch.NewCoordinator(
		dispatch.NewStore(dbPool),
		cfg.Dispatch,
		dispatch.WithPublisher(dispatch.NewKafkaPublisher(kafkaWriter)),
		dispatch.WithLogger(logger.Named("dispatch")),
	)
	matchingSvc := matching.NewService(bookingSvc, coordinator, cfg.Matching, logger.Named("matching"))

	locationStore := location.NewStore(dbPool, redisClient)

	fleetStore := fleet.NewStore(dbPool)
	fleetSvc := fleet.NewService(fleetStore, locationStore, logger.Named("fleet"))

	locationSvc := location.NewService(locationStore, logger.Named("location"))

	var triggerLimiter *rate.Limiter
	if cfg.HTTP.TriggerRPS > 0 {
		triggerLimiter = rate.NewLimiter(rate.Limit(cfg.HTTP.TriggerRPS), cfg.HTTP.TriggerBurst)
	}

	server := httptransport.NewServer(httptransport.ServerDeps{
		Booking:        bookingSvc,
		Matching:       matchingSvc,
		Fleet:          fleetSvc,
		Location:       locationSvc,
		Log:            logger.Named("http"),
		AllowOrigins:   cfg.HTTP.AllowOrigins,
		TriggerLimiter: triggerLimiter,
	})

	go matchingSvc.RunScheduler(ctx)

	return server.ListenAndServe(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
}
