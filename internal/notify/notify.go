package notify

import (
	"context"

	"github.com/fleetlink/fleetlink/internal/kafka"
	"go.uber.org/zap"
)

// Notifier delivers customer-facing booking notifications. The current
// implementation only logs; swapping in an SMS or email provider means
// replacing Send.
type Notifier struct {
	logger *zap.Logger
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) Send(_ context.Context, event kafka.BookingEvent) error {
	n.logger.Info("customer notification",
		zap.String("event", event.Type),
		zap.String("customer_id", event.CustomerID),
		zap.String("booking_id", event.BookingID),
		zap.String("vehicle_id", event.VehicleID),
		zap.Time("start_time", event.StartTime),
	)
	return nil
}
