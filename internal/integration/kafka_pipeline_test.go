//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/county-income-map/internal/adapter/kafka"
	"github.com/couchcryptid/county-income-map/internal/adapter/source"
	"github.com/couchcryptid/county-income-map/internal/config"
	"github.com/couchcryptid/county-income-map/internal/observability"
	"github.com/couchcryptid/county-income-map/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSnapshotTopic = "test-state-snapshots"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("income-map-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
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
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

// TestPipelinePublishesSnapshots runs the full pipeline over the mock sources
// and checks one snapshot per joined state lands on the topic.
func TestPipelinePublishesSnapshots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}

	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()

	dir := filepath.Join("..", "..", "data", "mock")
	loader := source.NewLoader(source.NewClient(5*time.Second, 0, logger), source.Locations{
		Counties: filepath.Join(dir, "income_counties.csv"),
		States:   filepath.Join(dir, "us_states.json"),
		Abbrevs:  filepath.Join(dir, "state_abbrevs.json"),
	}, logger, metrics)

	p := pipeline.New(loader, writer, logger, metrics, pipeline.Options{CacheSize: 1})
	view, err := p.View(ctx)
	require.NoError(t, err)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testSnapshotTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer consumer.Close()

	got := make(map[string]kafka.StateSnapshot)
	for range view.States {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read snapshot")

		var snap kafka.StateSnapshot
		require.NoError(t, json.Unmarshal(msg.Value, &snap))
		assert.Equal(t, snap.Alpha2, string(msg.Key))
		got[snap.Alpha2] = snap
	}

	assert.Len(t, got, 6)
	require.Contains(t, got, "CA")
	assert.Equal(t, 60000.0, *got["CA"].MedianIncome2015)
	assert.Equal(t, "transparent", got["AK"].FillColor)
	assert.Equal(t, view.Digest, got["TX"].Digest)
}
