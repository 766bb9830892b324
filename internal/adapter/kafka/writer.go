package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flight-brief/internal/config"
	"github.com/couchcryptid/flight-brief/internal/domain"
)

// Writer produces briefs to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes briefs to the sink topic in a single
// WriteMessages call. Briefs are keyed by ID so a leg always lands on the
// same partition.
func (w *Writer) LoadBatch(ctx context.Context, briefs []domain.Brief) error {
	if len(briefs) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(briefs))
	for i := range briefs {
		msg, err := serializeToMessage(briefs[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write briefs: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Brief into a Kafka message.
func serializeToMessage(brief domain.Brief) (kafkago.Message, error) {
	data, err := json.Marshal(brief)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize brief: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(brief.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_band", Value: []byte(brief.Risk.Band)},
			{Key: "evaluated_at", Value: []byte(brief.EvaluatedAt.Format(time.RFC3339))},
		},
	}, nil
}
