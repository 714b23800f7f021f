//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"api_sales/internal/events"
)

type pingEvent struct {
	ID uuid.UUID `json:"id"`
	At time.Time `json:"at"`
}

func (e pingEvent) EventName() string      { return "Ping" }
func (e pingEvent) AggregateID() uuid.UUID { return e.ID }
func (e pingEvent) OccurredAt() time.Time  { return e.At }

func TestRedisStreamPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ev := pingEvent{ID: uuid.New(), At: time.Now().UTC()}
	require.NoError(t, events.NewRedisStreamPublisher(client, "sales-events", 100).Publish(ctx, ev))

	msgs, err := client.XRange(ctx, "sales-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ping", msgs[0].Values["type"])
	assert.Equal(t, ev.ID.String(), msgs[0].Values["aggregate_id"])
}

func TestKafkaPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.3",
		redpanda.WithAutoCreateTopics(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	producer, err := events.NewKafkaClient([]string{broker}, "sales-events")
	require.NoError(t, err)
	t.Cleanup(producer.Close)

	ev := pingEvent{ID: uuid.New(), At: time.Now().UTC()}
	require.NoError(t, events.NewKafkaPublisher(producer, "sales-events").Publish(ctx, ev))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics("sales-events"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.Empty(t, fetches.Errors())

	records := fetches.Records()
	require.NotEmpty(t, records)
	assert.Equal(t, ev.ID.String(), string(records[0].Key))

	var env map[string]any
	require.NoError(t, json.Unmarshal(records[0].Value, &env))
	assert.Equal(t, "Ping", env["type"])
}
