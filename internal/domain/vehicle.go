package domain

import "time"

type Vehicle struct {
	ID         string
	Name       string
	CapacityKg int
	Tyres      int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
