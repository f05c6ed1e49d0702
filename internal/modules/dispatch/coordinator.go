// README: Dispatch coordinator commits matched groups to vehicles, one transaction per group.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ridepool/internal/config"
	"ridepool/internal/modules/booking"
	"ridepool/internal/modules/matching"
	"ridepool/internal/types"
)

var (
	ErrNoVehicleAvailable = errors.New("no vehicle available")
	ErrVehicleClaimLost   = errors.New("vehicle claimed by another dispatch")
	ErrBookingsChanged    = errors.New("bookings no longer pending")
	ErrEmptyGroup         = errors.New("empty group")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
)

type Coordinator struct {
	store  Store
	cfg    config.DispatchConfig
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Coordinator)

func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.events = p
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

func NewCoordinator(store Store, cfg config.DispatchConfig, opts ...Option) *Coordinator {
	if cfg.RideStatus == "" {
		cfg.RideStatus = StatusMatched
	}
	c := &Coordinator{
		store:  store,
		cfg:    cfg,
		events: nopPublisher{},
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch commits every group independently and returns one Outcome per
// group in input order. A failed group never stops the others.
func (c *Coordinator) Dispatch(ctx context.Context, groups []matching.MatchedGroup) []matching.Outcome {
	out := make([]matching.Outcome, len(groups))
	if c.cfg.Concurrency <= 1 {
		for i, g := range groups {
			out[i] = c.DispatchGroup(ctx, g)
		}
		return out
	}

	var eg errgroup.Group
	eg.SetLimit(c.cfg.Concurrency)
	for i, g := range groups {
		eg.Go(func() error {
			out[i] = c.DispatchGroup(ctx, g)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// DispatchGroup claims one available vehicle, creates the ride and confirms
// every member booking atomically. On any error nothing is persisted and the
// bookings stay PENDING.
func (c *Coordinator) DispatchGroup(ctx context.Context, g matching.MatchedGroup) matching.Outcome {
	out := matching.Outcome{BookingIDs: g.BookingIDs()}
	if len(g.Requests) == 0 {
		out.Err = ErrEmptyGroup
		return out
	}

	start := time.Now()
	txCtx := ctx
	if c.cfg.GroupTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, c.cfg.GroupTimeout)
		defer cancel()
	}

	ride := &Ride{
		ID:              types.NewID(),
		Status:          c.cfg.RideStatus,
		TotalDistanceKm: g.ReferenceDistanceKm,
		CreatedAt:       c.now(),
	}
	err := c.store.WithinTx(txCtx, func(tx Tx) error {
		vehicleID, ok, err := tx.AnyAvailableVehicle(txCtx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoVehicleAvailable
		}

		claimed, err := tx.ClaimVehicle(txCtx, vehicleID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrVehicleClaimLost
		}
		ride.VehicleID = vehicleID

		if err := tx.CreateRide(txCtx, ride); err != nil {
			return err
		}

		return moveBookings(txCtx, tx, ride.ID, out.BookingIDs, booking.StatusPending, booking.StatusConfirmed)
	})

	groupsTotal.WithLabelValues(resultLabel(err)).Inc()
	groupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warn("dispatch group failed",
			zap.Strings("booking_ids", types.IDsToStrings(out.BookingIDs)),
			zap.Error(err),
		)
		out.Err = err
		return out
	}

	out.RideID = ride.ID
	out.VehicleID = ride.VehicleID
	c.log.Info("ride matched",
		zap.String("ride_id", string(ride.ID)),
		zap.String("vehicle_id", string(ride.VehicleID)),
		zap.Int("bookings", len(out.BookingIDs)),
		zap.Int("passengers", g.Passengers()),
	)

	if err := c.events.PublishRideMatched(ctx, RideMatched{
		RideID:          ride.ID,
		VehicleID:       ride.VehicleID,
		BookingIDs:      out.BookingIDs,
		TotalDistanceKm: ride.TotalDistanceKm,
		MatchedAt:       ride.CreatedAt,
	}); err != nil {
		c.log.Warn("ride matched event not published", zap.String("ride_id", string(ride.ID)), zap.Error(err))
	}
	return out
}

// moveBookings attaches every booking to the ride. All of them must move or
// the caller's transaction is rolled back.
func moveBookings(ctx context.Context, tx Tx, rideID types.ID, ids []types.ID, from, to booking.Status) error {
	if !booking.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	n, err := tx.MoveBookings(ctx, rideID, ids, from, to)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: moved %d of %d", ErrBookingsChanged, n, len(ids))
	}
	return nil
}
