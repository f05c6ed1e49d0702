// README: Fleet store backed by PostgreSQL.
package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridepool/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (id, capacity, current_lat, current_lng, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		string(v.ID), v.Capacity, v.Location.Lat, v.Location.Lng, v.IsAvailable, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	var v Vehicle
	err := s.db.QueryRow(ctx, `
		SELECT id, capacity, current_lat, current_lng, is_available, created_at
		FROM vehicles WHERE id = $1`, string(id),
	).Scan(&v.ID, &v.Capacity, &v.Location.Lat, &v.Location.Lng, &v.IsAvailable, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Release flips availability back to true; it reports false when the vehicle
// was already available (or does not exist).
func (s *Store) Release(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE vehicles
		SET is_available = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_available = FALSE`, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
