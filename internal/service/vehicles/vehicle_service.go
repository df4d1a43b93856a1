package vehicles

import (
	"context"
	"strings"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/fleetlink/fleetlink/internal/ride"
	"github.com/google/uuid"
)

type VehicleUseCase interface {
	Register(ctx context.Context, input RegisterVehicleInput) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Deactivate(ctx context.Context, id string) error
	FindAvailable(ctx context.Context, input AvailabilityInput) (*AvailabilityResult, error)
}

// Cache is the roster cache as the service needs it; the Redis implementation
// lives in internal/cache.
type Cache interface {
	GetVehicles(ctx context.Context) ([]domain.Vehicle, error)
	SetVehicles(ctx context.Context, vehicles []domain.Vehicle) error
	InvalidateVehicles(ctx context.Context) error
}

type VehicleService struct {
	vehicles repository.VehicleRepository
	bookings repository.BookingRepository
	cache    Cache
	estimate ride.Estimator
}

type RegisterVehicleInput struct {
	Name       string
	CapacityKg int
	Tyres      int
}

type AvailabilityInput struct {
	CapacityRequired int
	FromPincode      string
	ToPincode        string
	StartTime        time.Time
}

// AvailabilityResult is a point-in-time snapshot: the listed vehicles can be
// taken by a competing booking before the caller acts, which is why booking
// creation re-validates against the ledger.
type AvailabilityResult struct {
	Vehicles      []domain.Vehicle
	DurationHours int
	Window        ride.Window
}

func NewVehicleService(vehicles repository.VehicleRepository, bookings repository.BookingRepository, cache Cache, estimate ride.Estimator) *VehicleService {
	return &VehicleService{vehicles: vehicles, bookings: bookings, cache: cache, estimate: estimate}
}

func validateVehicle(input RegisterVehicleInput) error {
	var v domain.ValidationError
	if strings.TrimSpace(input.Name) == "" {
		v.Add("name", "vehicle name is required")
	} else if len(input.Name) > 100 {
		v.Add("name", "vehicle name cannot exceed 100 characters")
	}
	if input.CapacityKg < 1 {
		v.Add("capacityKg", "capacity must be at least 1 kg")
	}
	if input.Tyres < 1 {
		v.Add("tyres", "number of tyres must be at least 1")
	}
	return v.Err()
}

func (s *VehicleService) Register(ctx context.Context, input RegisterVehicleInput) (*domain.Vehicle, error) {
	if err := validateVehicle(input); err != nil {
		return nil, err
	}

	vehicle := &domain.Vehicle{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		CapacityKg: input.CapacityKg,
		Tyres:      input.Tyres,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateVehicles(ctx)
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetVehicles(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetVehicles(ctx, vehicles)
	}
	return vehicles, nil
}

func (s *VehicleService) Deactivate(ctx context.Context, id string) error {
	if err := s.vehicles.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateVehicles(ctx)
	}
	return nil
}

func (s *VehicleService) FindAvailable(ctx context.Context, input AvailabilityInput) (*AvailabilityResult, error) {
	var v domain.ValidationError
	if input.CapacityRequired < 1 {
		v.Add("capacityRequired", "required capacity must be at least 1 kg")
	}
	if !input.StartTime.After(time.Now()) {
		v.Add("startTime", "start time must be in the future")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hours, err := s.estimate(input.FromPincode, input.ToPincode)
	if err != nil {
		return nil, err
	}
	window := ride.NewWindow(input.StartTime, hours)

	candidates, err := s.vehicles.FindByMinCapacity(ctx, input.CapacityRequired)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &AvailabilityResult{Vehicles: []domain.Vehicle{}, DurationHours: hours, Window: window}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	overlapping, err := s.bookings.FindOverlapping(ctx, ids, window)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]struct{}, len(overlapping))
	for _, b := range overlapping {
		booked[b.VehicleID] = struct{}{}
	}

	available := make([]domain.Vehicle, 0, len(candidates))
	for _, c := range candidates {
		if _, taken := booked[c.ID]; !taken {
			available = append(available, c)
		}
	}

	return &AvailabilityResult{Vehicles: available, DurationHours: hours, Window: window}, nil
}

var _ VehicleUseCase = (*VehicleService)(nil)
