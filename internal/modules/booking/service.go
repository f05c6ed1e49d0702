// README: Booking service creates priced PENDING bookings and reads them back.
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ridepool/internal/modules/location"
	"ridepool/internal/modules/pricing"
	"ridepool/internal/types"
)

var (
	ErrNotFound   = errors.New("booking not found")
	ErrBadRequest = errors.New("bad request")
)

type Pricing interface {
	Quote(ctx context.Context, pickup, dropoff types.Point) (pricing.Quote, error)
}

type bookingStore interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	ListPending(ctx context.Context) ([]*Booking, error)
}

type Service struct {
	store   bookingStore
	pricing Pricing
	// maxPassengers is the vehicle capacity; larger parties could never be grouped.
	maxPassengers int
	log           *zap.Logger
	now           func() time.Time
}

func NewService(store bookingStore, pricing Pricing, maxPassengers int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, pricing: pricing, maxPassengers: maxPassengers, log: log, now: time.Now}
}

type CreateCommand struct {
	UserID     types.ID
	Pickup     types.Point
	Dropoff    types.Point
	PickupTime time.Time // zero means now
	Passengers int
}

type CreateResult struct {
	BookingID types.ID
	Status    Status
	Quote     pricing.Quote
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (CreateResult, error) {
	if cmd.UserID == "" || cmd.Passengers <= 0 || cmd.Passengers > s.maxPassengers {
		return CreateResult{}, ErrBadRequest
	}
	if !location.ValidPoint(cmd.Pickup) || !location.ValidPoint(cmd.Dropoff) {
		return CreateResult{}, ErrBadRequest
	}

	quote, err := s.pricing.Quote(ctx, cmd.Pickup, cmd.Dropoff)
	if err != nil {
		return CreateResult{}, err
	}

	now := s.now()
	pickupTime := cmd.PickupTime
	if pickupTime.IsZero() {
		pickupTime = now
	}

	b := &Booking{
		ID:         types.NewID(),
		UserID:     cmd.UserID,
		Pickup:     cmd.Pickup,
		Dropoff:    cmd.Dropoff,
		PickupTime: pickupTime,
		Passengers: cmd.Passengers,
		Status:     StatusPending,
		Fare:       quote.Fare,
		CreatedAt:  now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return CreateResult{}, err
	}
	s.log.Info("booking created",
		zap.String("booking_id", string(b.ID)),
		zap.Int64("fare", b.Fare.Amount),
		zap.Float64("multiplier", quote.Multiplier),
	)
	return CreateResult{BookingID: b.ID, Status: b.Status, Quote: quote}, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListPending(ctx context.Context) ([]*Booking, error) {
	return s.store.ListPending(ctx)
}
