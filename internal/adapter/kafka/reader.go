package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Reader consumes summarize requests from a Kafka topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
// Offsets are committed explicitly through each message's Commit callback.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch blocks for the first message, then keeps collecting until
// batchSize messages are read or the flush interval elapses.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetch message: %w", err)
	}

	batch := make([]domain.RawMessage, 0, max(batchSize, 1))
	batch = append(batch, r.toRaw(first))

	flushCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(flushCtx)
		if err != nil {
			break
		}
		batch = append(batch, r.toRaw(msg))
	}

	r.logger.Debug("extracted batch", "size", len(batch))
	return batch, nil
}

func (r *Reader) toRaw(msg kafkago.Message) domain.RawMessage {
	raw := mapMessageToRaw(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func mapMessageToRaw(msg kafkago.Message) domain.RawMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawMessage{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
