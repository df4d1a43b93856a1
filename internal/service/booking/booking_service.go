package booking

import (
	"context"
	"strings"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/kafka"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/fleetlink/fleetlink/internal/ride"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.BookingWithVehicle, error)
	ListBookings(ctx context.Context) ([]domain.BookingWithVehicle, error)
	CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	vehicles           repository.VehicleRepository
	producer           Producer
	estimate           ride.Estimator
	eventsTopic        string
	notificationsTopic string
	logger             *zap.Logger
}

type CreateBookingInput struct {
	VehicleID   string
	CustomerID  string
	FromPincode string
	ToPincode   string
	StartTime   time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	producer Producer,
	estimate ride.Estimator,
	eventsTopic string,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		vehicles:    vehicles,
		producer:    producer,
		estimate:    estimate,
		eventsTopic: eventsTopic,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking re-validates availability through the ledger even when the
// caller just did an availability search: the search result is a snapshot and
// the slot may have been taken since. ErrBookingConflict propagates unchanged
// so transport can tell the caller to search again.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.BookingWithVehicle, error) {
	var v domain.ValidationError
	if strings.TrimSpace(input.VehicleID) == "" {
		v.Add("vehicleId", "vehicle id is required")
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		v.Add("customerId", "customer id is required")
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

	vehicle, err := s.vehicles.GetActive(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:                         uuid.NewString(),
		VehicleID:                  vehicle.ID,
		CustomerID:                 strings.TrimSpace(input.CustomerID),
		FromPincode:                input.FromPincode,
		ToPincode:                  input.ToPincode,
		StartTime:                  window.Start,
		EndTime:                    window.End,
		EstimatedRideDurationHours: hours,
	}
	if err := s.bookings.CreateIfFree(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)

	return &domain.BookingWithVehicle{
		Booking:           *booking,
		VehicleName:       vehicle.Name,
		VehicleCapacityKg: vehicle.CapacityKg,
		VehicleTyres:      vehicle.Tyres,
	}, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.BookingWithVehicle, error) {
	return s.bookings.ListWithVehicles(ctx)
}

// CompleteFinishedBookings flips active bookings whose window has fully
// elapsed to completed. Called from the worker on a timer; there is no HTTP
// surface for status changes.
func (s *BookingService) CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteFinishedBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range completed {
		s.publish(ctx, "booking_completed", &completed[i])
	}
	return completed, nil
}

// publish is best-effort: a booking that is already persisted must not fail
// because the event stream is down.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		VehicleID:     booking.VehicleID,
		CustomerID:    booking.CustomerID,
		FromPincode:   booking.FromPincode,
		ToPincode:     booking.ToPincode,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		DurationHours: booking.EstimatedRideDurationHours,
		Status:        string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		s.logger.Warn("publish booking event", zap.String("type", eventType), zap.String("booking_id", booking.ID), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.logger.Warn("publish notification event", zap.String("type", eventType), zap.String("booking_id", booking.ID), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
