package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/event-discovery-service/internal/config"
	"github.com/couchcryptid/event-discovery-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per ranked event of a discovery result.
// It implements pipeline.ResultPublisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// publishBatchTimeout bounds how long a synchronous Publish waits for a
// partial batch to fill.
const publishBatchTimeout = 10 * time.Millisecond

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           publishBatchTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, logger: logger}
}

// DiscoveredEvent is the message value written for each ranked event.
type DiscoveredEvent struct {
	DiscoveryID string          `json:"discovery_id"`
	Rank        int             `json:"rank"`
	DistanceKm  float64         `json:"distance_km"`
	Origin      domain.Location `json:"origin"`
	RadiusKm    float64         `json:"radius_km"`
	Event       domain.Event    `json:"event"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Publish writes the result's events in rank order in a single
// WriteMessages call.
func (p *Publisher) Publish(ctx context.Context, q domain.Query, result domain.Result) error {
	if len(result.Events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(result.Events))
	for i := range result.Events {
		msg, err := serializeToMessage(q, result, i)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write discovery %s: %w", result.ID, err)
	}
	p.logger.Debug("published discovery", "discovery_id", result.ID, "messages", len(msgs))
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals the i-th ranked event of result into a Kafka message.
func serializeToMessage(q domain.Query, result domain.Result, i int) (kafkago.Message, error) {
	event := result.Events[i]
	value := DiscoveredEvent{
		DiscoveryID: result.ID,
		Rank:        i + 1,
		DistanceKm:  result.DistanceKm[event.ID],
		RadiusKm:    q.RadiusKm,
		Event:       event,
		GeneratedAt: result.GeneratedAt,
	}
	if q.Origin != nil {
		value.Origin = *q.Origin
	}

	data, err := json.Marshal(value)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event %s: %w", event.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "discovery_id", Value: []byte(result.ID)},
			{Key: "category", Value: []byte(event.Category)},
			{Key: "generated_at", Value: []byte(result.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
