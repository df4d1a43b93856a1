package repository

import (
	"context"
	"errors"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetActive(ctx context.Context, id string) (*domain.Vehicle, error)
	FindByMinCapacity(ctx context.Context, minCapacityKg int) ([]domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Deactivate(ctx context.Context, id string) error
}

type PGVehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) VehicleRepository {
	return &PGVehicleRepository{db: db}
}

func (r *PGVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.db.QueryRow(ctx, `INSERT INTO vehicles (id, name, capacity_kg, tyres, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING is_active, created_at, updated_at`, vehicle.ID, vehicle.Name, vehicle.CapacityKg, vehicle.Tyres).
		Scan(&vehicle.IsActive, &vehicle.CreatedAt, &vehicle.UpdatedAt)
}

func (r *PGVehicleRepository) GetActive(ctx context.Context, id string) (*domain.Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, capacity_kg, tyres, is_active, created_at, updated_at FROM vehicles WHERE id=$1 AND is_active`, id)
	var v domain.Vehicle
	if err := row.Scan(&v.ID, &v.Name, &v.CapacityKg, &v.Tyres, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGVehicleRepository) FindByMinCapacity(ctx context.Context, minCapacityKg int) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, capacity_kg, tyres, is_active, created_at, updated_at FROM vehicles WHERE is_active AND capacity_kg >= $1 ORDER BY capacity_kg, created_at`, minCapacityKg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (r *PGVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, capacity_kg, tyres, is_active, created_at, updated_at FROM vehicles WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (r *PGVehicleRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `UPDATE vehicles SET is_active=false, updated_at=now() WHERE id=$1 AND is_active`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func scanVehicles(rows pgx.Rows) ([]domain.Vehicle, error) {
	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.CapacityKg, &v.Tyres, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

var _ VehicleRepository = (*PGVehicleRepository)(nil)
