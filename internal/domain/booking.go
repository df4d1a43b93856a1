package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Only active bookings participate in overlap checks; completed and cancelled
// are terminal.
type Booking struct {
	ID                         string
	VehicleID                  string
	CustomerID                 string
	FromPincode                string
	ToPincode                  string
	StartTime                  time.Time
	EndTime                    time.Time
	EstimatedRideDurationHours int
	Status                     BookingStatus
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// BookingWithVehicle is the read-side join used for display: a booking plus a
// summary of the vehicle it is placed against.
type BookingWithVehicle struct {
	Booking
	VehicleName       string
	VehicleCapacityKg int
	VehicleTyres      int
}
