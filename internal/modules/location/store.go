// README: Location store: last known position in Postgres, live index in Redis GEO.
package location

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ridepool/internal/types"
)

const vehicleGeoKey = "location:vehicles"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// SetPosition updates the vehicle's last known location. It reports false when
// the vehicle does not exist.
func (s *Store) SetPosition(ctx context.Context, id types.ID, pos types.Point) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE vehicles
		SET current_lat = $1, current_lng = $2, updated_at = NOW()
		WHERE id = $3`,
		pos.Lat, pos.Lng, string(id),
	)
	if err != nil {
		return false, fmt.Errorf("update vehicle position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if err := s.IndexPosition(ctx, id, pos); err != nil {
		return true, err
	}
	return true, nil
}

// IndexPosition writes pos into the Redis GEO index only.
func (s *Store) IndexPosition(ctx context.Context, id types.ID, pos types.Point) error {
	err := s.redis.GeoAdd(ctx, vehicleGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd: %w", err)
	}
	return nil
}

func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64, limit int) ([]VehicleLocation, error) {
	results, err := s.redis.GeoSearchLocation(ctx, vehicleGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]VehicleLocation, len(results))
	for i, r := range results {
		out[i] = VehicleLocation{
			VehicleID:  types.ID(r.Name),
			Position:   types.Point{Lat: r.Latitude, Lng: r.Longitude},
			DistanceKm: r.Dist,
		}
	}
	return out, nil
}
