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
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

// mockLeg is one entry of the leg request fixture, kept as raw JSON so the
// exact fixture bytes are published.
type mockLeg struct {
	FlightNo string
	Payload  json.RawMessage
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// loadMockLegs reads the leg request fixture written by cmd/genmock.
func loadMockLegs(t *testing.T) []mockLeg {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "legs.json"))
	require.NoError(t, err)

	var payloads []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &payloads))

	legs := make([]mockLeg, 0, len(payloads))
	for _, p := range payloads {
		var head struct {
			FlightNo string `json:"flight_no"`
		}
		require.NoError(t, json.Unmarshal(p, &head))
		legs = append(legs, mockLeg{FlightNo: head.FlightNo, Payload: p})
	}
	return legs
}
