// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridepool/internal/types"
)

type Store struct {
	db       *pgxpool.Pool
	currency string
}

func NewStore(db *pgxpool.Pool, currency string) *Store {
	return &Store{db: db, currency: currency}
}

const bookingColumns = `
	id, user_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	pickup_time, passengers, status, fare, ride_id, created_at`

func (s *Store) Create(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			pickup_time, passengers, status, fare, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $11
		)`,
		string(b.ID),
		string(b.UserID),
		b.Pickup.Lat, b.Pickup.Lng,
		b.Dropoff.Lat, b.Dropoff.Lng,
		b.PickupTime,
		b.Passengers,
		string(b.Status),
		b.Fare.Amount,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	b, err := s.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListPending returns every PENDING booking. The matcher sorts them itself.
func (s *Store) ListPending(ctx context.Context) ([]*Booking, error) {
	rows, err := s.db.Query(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE status = 'PENDING'`)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) scan(row pgx.Row) (*Booking, error) {
	var b Booking
	var rideID *string
	err := row.Scan(
		&b.ID, &b.UserID,
		&b.Pickup.Lat, &b.Pickup.Lng, &b.Dropoff.Lat, &b.Dropoff.Lng,
		&b.PickupTime, &b.Passengers, &b.Status, &b.Fare.Amount, &rideID, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rideID != nil {
		r := types.ID(*rideID)
		b.RideID = &r
	}
	b.Fare.Currency = s.currency
	return &b, nil
}
