package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/ride"
)

// In-memory implementations of VehicleRepository and BookingRepository. The
// services depend only on the interfaces, so these substitute for the
// Postgres implementations in tests and single-process setups.

type MemoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]domain.Vehicle
}

func NewMemoryVehicleRepository() *MemoryVehicleRepository {
	return &MemoryVehicleRepository{vehicles: make(map[string]domain.Vehicle)}
}

func (r *MemoryVehicleRepository) Create(_ context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	vehicle.IsActive = true
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *MemoryVehicleRepository) GetActive(_ context.Context, id string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok || !v.IsActive {
		return nil, domain.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *MemoryVehicleRepository) FindByMinCapacity(_ context.Context, minCapacityKg int) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]domain.Vehicle, 0)
	for _, v := range r.vehicles {
		if v.IsActive && v.CapacityKg >= minCapacityKg {
			matches = append(matches, v)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (r *MemoryVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	return r.FindByMinCapacity(ctx, 0)
}

func (r *MemoryVehicleRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok || !v.IsActive {
		return domain.ErrVehicleNotFound
	}
	v.IsActive = false
	v.UpdatedAt = time.Now().UTC()
	r.vehicles[id] = v
	return nil
}

type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []domain.Booking

	lockMu       sync.Mutex
	vehicleLocks map[string]*sync.Mutex

	vehicles *MemoryVehicleRepository
}

func NewMemoryBookingRepository(vehicles *MemoryVehicleRepository) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		vehicleLocks: make(map[string]*sync.Mutex),
		vehicles:     vehicles,
	}
}

// vehicleLock returns the mutex serializing CreateIfFree for one vehicle.
// Locking is scoped per vehicle so bookings against different vehicles never
// contend.
func (r *MemoryBookingRepository) vehicleLock(vehicleID string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()

	lock, ok := r.vehicleLocks[vehicleID]
	if !ok {
		lock = &sync.Mutex{}
		r.vehicleLocks[vehicleID] = lock
	}
	return lock
}

func (r *MemoryBookingRepository) FindOverlapping(_ context.Context, vehicleIDs []string, window ride.Window) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(vehicleIDs))
	for _, id := range vehicleIDs {
		wanted[id] = struct{}{}
	}

	matches := make([]domain.Booking, 0)
	for _, b := range r.bookings {
		if _, ok := wanted[b.VehicleID]; !ok {
			continue
		}
		if b.Status != domain.BookingStatusActive {
			continue
		}
		if window.Overlaps(ride.Window{Start: b.StartTime, End: b.EndTime}) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

func (r *MemoryBookingRepository) CreateIfFree(ctx context.Context, booking *domain.Booking) error {
	lock := r.vehicleLock(booking.VehicleID)
	lock.Lock()
	defer lock.Unlock()

	window := ride.Window{Start: booking.StartTime, End: booking.EndTime}
	conflicts, err := r.FindOverlapping(ctx, []string{booking.VehicleID}, window)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return domain.ErrBookingConflict
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	booking.Status = domain.BookingStatusActive
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *MemoryBookingRepository) ListWithVehicles(_ context.Context) ([]domain.BookingWithVehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.BookingWithVehicle, 0, len(r.bookings))
	for _, b := range r.bookings {
		entry := domain.BookingWithVehicle{Booking: b}
		if r.vehicles != nil {
			r.vehicles.mu.RLock()
			if v, ok := r.vehicles.vehicles[b.VehicleID]; ok {
				entry.VehicleName = v.Name
				entry.VehicleCapacityKg = v.CapacityKg
				entry.VehicleTyres = v.Tyres
			}
			r.vehicles.mu.RUnlock()
		}
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *MemoryBookingRepository) CompleteFinishedBefore(_ context.Context, deadline time.Time) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	completed := make([]domain.Booking, 0)
	for i := range r.bookings {
		b := &r.bookings[i]
		if b.Status == domain.BookingStatusActive && !b.EndTime.After(deadline) {
			b.Status = domain.BookingStatusCompleted
			b.UpdatedAt = time.Now().UTC()
			completed = append(completed, *b)
		}
	}
	return completed, nil
}

var (
	_ VehicleRepository = (*MemoryVehicleRepository)(nil)
	_ BookingRepository = (*MemoryBookingRepository)(nil)
)
