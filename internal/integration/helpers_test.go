//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the lifetime of the test.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("geo-digest-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// loadMockRequest returns the shared summarize request fixture.
func loadMockRequest(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "summarize_request.json"))
	require.NoError(t, err)
	return data
}

// mockRequestWithType returns the fixture with its analysis type replaced and
// its ID cleared so the message key becomes the request ID.
func mockRequestWithType(t *testing.T, at domain.AnalysisType) []byte {
	t.Helper()
	req, err := domain.ParseSummarizeRequest(domain.RawMessage{Value: loadMockRequest(t)})
	require.NoError(t, err)

	opts := req.EffectiveOptions()
	opts.AnalysisType = at
	req.Options = &opts
	req.ID = ""

	data, err := json.Marshal(req)
	require.NoError(t, err)
	return data
}
