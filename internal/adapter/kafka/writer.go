package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Writer produces digest messages to a Kafka topic.
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

// LoadBatch publishes digests to the sink topic in a single WriteMessages
// call. Messages are keyed by request ID, so digests for one request land on
// one partition.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		out[i] = toMessage(msgs[i])
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("write digests: %w", err)
	}
	w.logger.Debug("published digests", "count", len(out))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output message, emitting headers in key order.
func toMessage(msg domain.OutputMessage) kafkago.Message {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
	}
	return kafkago.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}
