package repository

import (
	"context"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/ride"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the booking ledger. CreateIfFree is the only write path
// for new bookings and carries the no-double-booking invariant: for one
// vehicle, two active bookings never overlap.
type BookingRepository interface {
	FindOverlapping(ctx context.Context, vehicleIDs []string, window ride.Window) ([]domain.Booking, error)
	CreateIfFree(ctx context.Context, booking *domain.Booking) error
	ListWithVehicles(ctx context.Context) ([]domain.BookingWithVehicle, error)
	CompleteFinishedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) FindOverlapping(ctx context.Context, vehicleIDs []string, window ride.Window) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, status, created_at, updated_at
		FROM bookings
		WHERE vehicle_id = ANY($1) AND status=$2 AND start_time < $3 AND end_time > $4`,
		vehicleIDs, domain.BookingStatusActive, window.End, window.Start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// CreateIfFree runs the overlap check and the insert in one transaction,
// serialized per vehicle through an advisory lock. Concurrent attempts on the
// same vehicle queue on the lock, so the loser always sees the winner's row
// and gets ErrBookingConflict. Attempts on different vehicles do not contend.
func (r *PGBookingRepository) CreateIfFree(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, booking.VehicleID); err != nil {
		return err
	}

	var conflicts int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE vehicle_id=$1 AND status=$2 AND start_time < $3 AND end_time > $4`,
		booking.VehicleID, domain.BookingStatusActive, booking.EndTime, booking.StartTime).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.ErrBookingConflict
	}

	booking.Status = domain.BookingStatusActive
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		booking.ID, booking.VehicleID, booking.CustomerID, booking.FromPincode, booking.ToPincode,
		booking.StartTime, booking.EndTime, booking.EstimatedRideDurationHours, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ListWithVehicles(ctx context.Context) ([]domain.BookingWithVehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.vehicle_id, b.customer_id, b.from_pincode, b.to_pincode, b.start_time, b.end_time, b.estimated_ride_duration_hours, b.status, b.created_at, b.updated_at,
			v.name, v.capacity_kg, v.tyres
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingWithVehicle, 0)
	for rows.Next() {
		var b domain.BookingWithVehicle
		if err := rows.Scan(&b.ID, &b.VehicleID, &b.CustomerID, &b.FromPincode, &b.ToPincode, &b.StartTime, &b.EndTime, &b.EstimatedRideDurationHours, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.VehicleName, &b.VehicleCapacityKg, &b.VehicleTyres); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CompleteFinishedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND end_time <= $3
		RETURNING id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, status, created_at, updated_at`,
		domain.BookingStatusCompleted, domain.BookingStatusActive, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.VehicleID, &b.CustomerID, &b.FromPincode, &b.ToPincode, &b.StartTime, &b.EndTime, &b.EstimatedRideDurationHours, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
