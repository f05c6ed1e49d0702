// README: Pricing store reads the live demand snapshot from PostgreSQL.
package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Demand counts pending bookings and available vehicles in one round trip.
func (s *Store) Demand(ctx context.Context) (Demand, error) {
	var d Demand
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookings WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM vehicles WHERE is_available)`,
	).Scan(&d.ActiveRequests, &d.AvailableVehicles)
	if err != nil {
		return Demand{}, fmt.Errorf("demand snapshot: %w", err)
	}
	return d, nil
}
