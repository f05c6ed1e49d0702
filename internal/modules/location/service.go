// README: Location service records vehicle positions and answers nearby lookups.
package location

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ridepool/internal/types"
)

var (
	ErrNotFound   = errors.New("vehicle not found")
	ErrBadRequest = errors.New("bad request")
)

const (
	defaultNearbyLimit = 20
	maxNearbyRadiusKm  = 50.0
)

type positionStore interface {
	SetPosition(ctx context.Context, id types.ID, pos types.Point) (bool, error)
	Nearby(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]VehicleLocation, error)
}

type Service struct {
	store positionStore
	log   *zap.Logger
}

func NewService(store positionStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

type Update struct {
	VehicleID types.ID
	Position  types.Point
}

func (s *Service) Update(ctx context.Context, u Update) error {
	if u.VehicleID == "" || !ValidPoint(u.Position) {
		return ErrBadRequest
	}
	found, err := s.store.SetPosition(ctx, u.VehicleID, u.Position)
	if !found && err == nil {
		return ErrNotFound
	}
	if err != nil {
		if found {
			// Postgres is the source of truth; the GEO index catches up on the next update.
			s.log.Warn("vehicle geo index update failed", zap.String("vehicle_id", string(u.VehicleID)), zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

// Nearby lists vehicles around p for operators. Dispatch does not use it.
func (s *Service) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]VehicleLocation, error) {
	if !ValidPoint(p) || radiusKm <= 0 || radiusKm > maxNearbyRadiusKm {
		return nil, ErrBadRequest
	}
	return s.store.Nearby(ctx, p, radiusKm, defaultNearbyLimit)
}
