// README: Seeds vehicles (and optional demo bookings) around Bangalore.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ridepool/internal/config"
	"ridepool/internal/infra"
	"ridepool/internal/modules/booking"
	"ridepool/internal/modules/fleet"
	"ridepool/internal/modules/location"
	"ridepool/internal/modules/pricing"
	"ridepool/internal/types"
)

var (
	centralBangalore = types.Point{Lat: 12.9716, Lng: 77.5946}
	airport          = types.Point{Lat: 13.1986, Lng: 77.7066}
)

func main() {
	vehicles := flag.Int("vehicles", 2, "vehicles to register (first two at MG Road and the airport)")
	bookings := flag.Int("bookings", 0, "demo PENDING bookings to create near MG Road")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer db.Close()

	if *migrate {
		root, err := infra.FindRepoRoot()
		if err != nil {
			logger.Fatal("repo root", zap.Error(err))
		}
		if err := infra.ApplyMigrations(ctx, db, filepath.Join(root, cfg.DB.Migrations)); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()

	fleetSvc := fleet.NewService(fleet.NewStore(db), location.NewStore(db, redisClient), logger)

	for i := 0; i < *vehicles; i++ {
		pos := seedPosition(i)
		if _, err := fleetSvc.Register(ctx, fleet.RegisterCommand{Capacity: cfg.Matching.VehicleCapacity, Location: pos}); err != nil {
			logger.Fatal("register vehicle", zap.Error(err))
		}
	}

	if *bookings > 0 {
		pricingSvc := pricing.NewService(pricing.NewStore(db), cfg.Pricing)
		bookingSvc := booking.NewService(booking.NewStore(db, cfg.Pricing.Currency), pricingSvc, cfg.Matching.VehicleCapacity, logger)
		now := time.Now()
		for i := 0; i < *bookings; i++ {
			_, err := bookingSvc.Create(ctx, booking.CreateCommand{
				UserID:     types.NewID(),
				Pickup:     jitter(centralBangalore, 0.01),
				Dropoff:    airport,
				PickupTime: now.Add(time.Duration(i) * time.Minute),
				Passengers: 1,
			})
			if err != nil {
				logger.Fatal("create booking", zap.Error(err))
			}
		}
	}

	logger.Info("seed completed", zap.Int("vehicles", *vehicles), zap.Int("bookings", *bookings))
}

func seedPosition(i int) types.Point {
	switch i {
	case 0:
		return centralBangalore
	case 1:
		return airport
	default:
		return jitter(centralBangalore, 0.05)
	}
}

func jitter(p types.Point, deg float64) types.Point {
	return types.Point{
		Lat: p.Lat + rand.Float64()*deg,
		Lng: p.Lng + rand.Float64()*deg,
	}
}
