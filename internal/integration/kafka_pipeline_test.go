//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-digest-service/internal/adapter/kafka"
	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
	"github.com/couchcryptid/geo-digest-service/internal/pipeline"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

const (
	testSourceTopic = "test-requests"
	testSinkTopic   = "test-digests"
)

// digestMessage holds a deserialized message read from the sink topic.
type digestMessage struct {
	Response domain.DigestResponse
	Key      string
	Headers  map[string]string
}

// readDigest reads a single message from the sink consumer and deserializes it.
func readDigest(ctx context.Context, t *testing.T, consumer *kafkago.Reader) digestMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var resp domain.DigestResponse
	require.NoError(t, json.Unmarshal(msg.Value, &resp), "unmarshal sink message")

	return digestMessage{Response: resp, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 2 * time.Second,
	}
}

func newDigestTransformer() *pipeline.DigestTransformer {
	s := summarize.New(nil, discardLogger(), observability.NewMetricsForTesting())
	return pipeline.NewTransformer(s, nil, 0, discardLogger())
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor) and
// kafka.Writer (loader) round-trip a request and its digest through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := loadMockRequest(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("test-key"), Value: payload}))

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawMessage
	for len(batch) == 0 {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("test-key"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	out, err := newDigestTransformer().Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputMessage{out}))

	dm := readDigest(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "mock-request-1", dm.Key)
	assert.Equal(t, "strategic-analysis", dm.Headers["analysis_type"])
	_, err = time.Parse(time.RFC3339, dm.Headers["generated_at"])
	assert.NoError(t, err, "generated_at should be valid RFC3339")

	assert.Equal(t, 4, dm.Response.LayerCount)
	assert.Equal(t, 70, dm.Response.FeatureCount)
	assert.Contains(t, dm.Response.Digest, "Williamston, MI: 400")
}

// TestPipelineEndToEnd wires Reader -> DigestTransformer -> Writer against a
// real broker and checks every request yields one digest.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	analysisTypes := []domain.AnalysisType{
		domain.AnalysisStrategic, domain.AnalysisPerformance, domain.AnalysisOutlier,
		domain.AnalysisSpatial, domain.AnalysisDistribution,
	}
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(analysisTypes))
	for i, at := range analysisTypes {
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprintf("request-%d", i)),
			Value: mockRequestWithType(t, at),
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, newDigestTransformer(), writer, discardLogger(), observability.NewMetricsForTesting(), 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := map[string]digestMessage{}
	for len(received) < len(analysisTypes) {
		dm := readDigest(ctx, t, consumer)
		received[dm.Headers["analysis_type"]] = dm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx))

	for _, at := range analysisTypes {
		dm, ok := received[string(at)]
		require.True(t, ok, "missing digest for %s", at)
		assert.Equal(t, 3, strings.Count(dm.Response.Digest, "ANALYSIS DIRECTIVE:"), at)
		assert.Equal(t, len(dm.Response.Digest), dm.Response.ByteSize)
	}
	assert.Contains(t, received[string(domain.AnalysisPerformance)].Response.Digest, "Performance tiers:")
	assert.Contains(t, received[string(domain.AnalysisDistribution)].Response.Digest, "Quartile bands")
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues with valid requests.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-poison")

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("good"), Value: loadMockRequest(t)},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, newDigestTransformer(), writer, discardLogger(), observability.NewMetricsForTesting(), 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	dm := readDigest(ctx, t, consumer)
	assert.Equal(t, "mock-request-1", dm.Key)

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
