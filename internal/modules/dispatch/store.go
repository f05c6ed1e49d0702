// README: Transactional dispatch store backed by PostgreSQL.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridepool/internal/modules/booking"
	"ridepool/internal/types"
)

// Store runs fn inside one transaction. fn's error rolls the transaction back.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes one group commit needs.
type Tx interface {
	// AnyAvailableVehicle returns some available vehicle; ok is false when none is.
	AnyAvailableVehicle(ctx context.Context) (id types.ID, ok bool, err error)
	// ClaimVehicle flips availability true→false; false means another
	// transaction got there first.
	ClaimVehicle(ctx context.Context, id types.ID) (bool, error)
	CreateRide(ctx context.Context, r *Ride) error
	// MoveBookings sets status to and ride_id on the bookings currently in
	// status from. It returns how many moved.
	MoveBookings(ctx context.Context, rideID types.ID, bookingIDs []types.ID, from, to booking.Status) (int64, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) AnyAvailableVehicle(ctx context.Context) (types.ID, bool, error) {
	var id string
	// Rows held by an in-flight claim are skipped so parallel groups spread
	// across the free vehicles.
	err := t.tx.QueryRow(ctx, `
		SELECT id FROM vehicles
		WHERE is_available
		LIMIT 1
		FOR UPDATE SKIP LOCKED`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select available vehicle: %w", err)
	}
	return types.ID(id), true, nil
}

func (t *pgTx) ClaimVehicle(ctx context.Context, id types.ID) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE vehicles
		SET is_available = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_available = TRUE`, string(id),
	)
	if err != nil {
		return false, fmt.Errorf("claim vehicle: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *pgTx) CreateRide(ctx context.Context, r *Ride) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO rides (id, vehicle_id, status, total_distance, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(r.ID), string(r.VehicleID), r.Status, r.TotalDistanceKm, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

func (t *pgTx) MoveBookings(ctx context.Context, rideID types.ID, bookingIDs []types.ID, from, to booking.Status) (int64, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE bookings
		SET status = $1, ride_id = $2, updated_at = NOW()
		WHERE id = ANY($3) AND status = $4`,
		string(to), string(rideID), types.IDsToStrings(bookingIDs), string(from),
	)
	if err != nil {
		return 0, fmt.Errorf("move bookings %s->%s: %w", from, to, err)
	}
	return tag.RowsAffected(), nil
}
