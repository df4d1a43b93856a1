package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads booking events from one topic as part of a consumer group.
// Payload decoding happens here so handlers only ever see a BookingEvent.
type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads messages until the context is canceled or the handler fails.
// Messages that do not decode as booking events are logged and skipped, not
// handed to the handler.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			c.logger.Warn("decode booking event",
				zap.String("topic", msg.Topic),
				zap.ByteString("key", msg.Key),
				zap.Error(err),
			)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(payload []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return BookingEvent{}, err
	}
	return event, nil
}
