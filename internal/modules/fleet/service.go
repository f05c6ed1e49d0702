// README: Fleet service registers vehicles and returns them to the available pool.
package fleet

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ridepool/internal/modules/location"
	"ridepool/internal/types"
)

var (
	ErrNotFound   = errors.New("vehicle not found")
	ErrBadRequest = errors.New("bad request")
	ErrNotClaimed = errors.New("vehicle is already available")
)

type vehicleStore interface {
	Create(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id types.ID) (*Vehicle, error)
	Release(ctx context.Context, id types.ID) (bool, error)
}

// positionIndex is the live location index nearby lookups read from.
type positionIndex interface {
	IndexPosition(ctx context.Context, id types.ID, pos types.Point) error
}

type Service struct {
	store vehicleStore
	index positionIndex
	log   *zap.Logger
}

// NewService builds the fleet service. index may be nil, in which case new
// vehicles only become visible to nearby lookups after a location update.
func NewService(store vehicleStore, index positionIndex, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, index: index, log: log}
}

type RegisterCommand struct {
	Capacity int
	Location types.Point
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Vehicle, error) {
	if cmd.Capacity <= 0 || !location.ValidPoint(cmd.Location) {
		return nil, ErrBadRequest
	}
	v := &Vehicle{
		ID:          types.NewID(),
		Capacity:    cmd.Capacity,
		Location:    cmd.Location,
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	if s.index != nil {
		if err := s.index.IndexPosition(ctx, v.ID, v.Location); err != nil {
			s.log.Warn("vehicle geo index update failed", zap.String("vehicle_id", string(v.ID)), zap.Error(err))
		}
	}
	s.log.Info("vehicle registered", zap.String("vehicle_id", string(v.ID)), zap.Int("capacity", v.Capacity))
	return v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	return s.store.Get(ctx, id)
}

// Release makes a vehicle claimable again once its ride is over.
func (s *Service) Release(ctx context.Context, id types.ID) error {
	ok, err := s.store.Release(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		s.log.Info("vehicle released", zap.String("vehicle_id", string(id)))
		return nil
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return ErrNotClaimed
}
