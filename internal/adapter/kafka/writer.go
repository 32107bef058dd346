package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/county-income-map/internal/config"
	"github.com/couchcryptid/county-income-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// StateSnapshot is the message published for each state of a computed view.
type StateSnapshot struct {
	Name             string   `json:"name"`
	Alpha2           string   `json:"alpha-2"`
	MedianIncome2015 *float64 `json:"median_income_2015"`
	MedianIncome1989 *float64 `json:"median_income_1989"`
	MedianChange     *float64 `json:"median_change"`
	FillColor        string   `json:"fill_color"`
	Digest           string   `json:"digest"`
	ComputedAt       string   `json:"computed_at"`
}

// Writer publishes state snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per state in a single WriteMessages call. Keys
// are the two-letter state codes so a compacted topic keeps the latest
// snapshot per state.
func (w *Writer) Publish(ctx context.Context, view domain.View) error {
	if len(view.States) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(view.States))
	for i := range view.States {
		msg, err := serializeToMessage(view, view.States[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	w.logger.Debug("snapshots published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func newSnapshot(view domain.View, state domain.StateView) StateSnapshot {
	return StateSnapshot{
		Name:             state.Name,
		Alpha2:           state.Alpha2,
		MedianIncome2015: state.MedianIncome2015(),
		MedianIncome1989: state.MedianIncome1989(),
		MedianChange:     state.MedianChange(),
		FillColor:        view.Fill(state),
		Digest:           view.Digest,
		ComputedAt:       view.ComputedAt.UTC().Format(time.RFC3339),
	}
}

// serializeToMessage marshals one state of a view into a Kafka message.
func serializeToMessage(view domain.View, state domain.StateView) (kafkago.Message, error) {
	data, err := json.Marshal(newSnapshot(view, state))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize state snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(state.Alpha2),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "digest", Value: []byte(view.Digest)},
			{Key: "computed_at", Value: []byte(view.ComputedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
