//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-brief/internal/adapter/kafka"
	"github.com/couchcryptid/flight-brief/internal/config"
	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
	"github.com/couchcryptid/flight-brief/internal/pipeline"
)

const (
	testSourceTopic = "test-leg-requests"
	testSinkTopic   = "test-briefs"
)

// publishedBrief holds a deserialized message read from the sink topic.
type publishedBrief struct {
	Brief   domain.Brief
	Key     string
	Headers map[string]string
}

func readBrief(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedBrief {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var brief domain.Brief
	require.NoError(t, json.Unmarshal(msg.Value, &brief), "unmarshal sink message")

	return publishedBrief{Brief: brief, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func newSinkConsumer(t *testing.T, broker string) *kafkago.Reader {
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

func newTransformer() *pipeline.BriefTransformer {
	return pipeline.NewTransformer(domain.NewScorer(domain.DefaultHubs()), nil, false, discardLogger())
}

// TestKafkaReaderWriter round-trips one leg request through the Kafka
// reader, the transformer, and the Kafka writer.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	leg := loadMockLegs(t)[0] // CA123 ZBAA-ZSPD, rain on arrival
	require.Equal(t, "CA123", leg.FlightNo)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(leg.FlightNo),
		Value: leg.Payload,
	}))

	// The consumer group may need time to rebalance before partitions are assigned.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawMessage
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("CA123"), raw.Key)
	assert.JSONEq(t, string(leg.Payload), string(raw.Value))
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	brief, err := newTransformer().Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.Brief{brief}))

	pb := readBrief(ctx, t, newSinkConsumer(t, broker))
	assert.Equal(t, brief.ID, pb.Key)
	assert.Equal(t, "medium", pb.Headers["risk_band"])
	_, err = time.Parse(time.RFC3339, pb.Headers["evaluated_at"])
	assert.NoError(t, err, "evaluated_at should be valid RFC3339")

	assert.Equal(t, "CA123", pb.Brief.FlightNo)
	assert.Equal(t, 0.51, pb.Brief.Risk.Value)
	assert.Equal(t, domain.CategoryMVFR, pb.Brief.ArrConditions.Category)
	assert.Equal(t, domain.PhenomenonRain, pb.Brief.ArrConditions.Phenomenon)
}

// TestPipelineEndToEnd runs the full pipeline against real Kafka and checks
// that every valid fixture leg is briefed and the rejected ones are skipped.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	legs := loadMockLegs(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(legs))
	for _, leg := range legs {
		msgs = append(msgs, kafkago.Message{Key: []byte(leg.FlightNo), Value: leg.Payload})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewUnregisteredMetrics()
	p := pipeline.New(reader, newTransformer(), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Two fixture legs (ZZ9, ZZ10) are rejected by the transformer.
	const wantBriefs = 8
	consumer := newSinkConsumer(t, broker)
	received := make(map[string]publishedBrief, wantBriefs)
	for len(received) < wantBriefs {
		pb := readBrief(ctx, t, consumer)
		received[pb.Brief.FlightNo] = pb
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	require.NoError(t, p.CheckReadiness(ctx), "pipeline should be ready after loading briefs")

	bands := map[string]int{}
	for flight, pb := range received {
		assert.Equal(t, string(pb.Brief.Risk.Band), pb.Headers["risk_band"], flight)
		_, err := time.Parse(time.RFC3339, pb.Headers["evaluated_at"])
		assert.NoError(t, err, "invalid evaluated_at for %s", flight)
		assert.Equal(t, pb.Brief.ID, pb.Key, flight)
		bands[pb.Headers["risk_band"]]++
	}
	assert.Equal(t, 3, bands["low"], "low count")
	assert.Equal(t, 2, bands["medium"], "medium count")
	assert.Equal(t, 3, bands["high"], "high count")
	assert.NotContains(t, received, "ZZ9")
	assert.NotContains(t, received, "ZZ10")

	// Spot-check the worst leg: fog at departure between two hubs.
	hu, ok := received["HU7601"]
	require.True(t, ok, "expected HU7601 brief")
	assert.Equal(t, 0.87, hu.Brief.Risk.Value)
	assert.Equal(t, domain.CategoryLIFR, hu.Brief.DepConditions.Category)
	assert.Equal(t, domain.PhenomenonObscuration, hu.Brief.DepConditions.Phenomenon)
}

// TestPipelineTransformError verifies that a poison message is skipped and the
// pipeline keeps processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-poison")

	leg := loadMockLegs(t)[0]
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte(leg.FlightNo), Value: leg.Payload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewUnregisteredMetrics()
	p := pipeline.New(reader, newTransformer(), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)
	pb := readBrief(ctx, t, consumer)
	assert.Equal(t, "CA123", pb.Brief.FlightNo)

	// No second message: the poison pill was skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
