package infra

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter configures an asynchronous producer for topic. Delivery
// failures are reported through logger since WriteMessages returns before
// the broker acknowledges.
func NewKafkaWriter(brokers []string, topic string, logger *slog.Logger) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil && logger != nil {
				logger.Error("kafka delivery failed",
					slog.String("topic", topic),
					slog.Int("messages", len(messages)),
					slog.Any("error", err),
				)
			}
		},
	}, nil
}
