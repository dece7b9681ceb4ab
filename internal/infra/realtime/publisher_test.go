package realtime

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLogger struct {
	warns int64
}

func (l *countingLogger) Warn(format string, v ...interface{}) {
	atomic.AddInt64(&l.warns, 1)
}

func TestChannelNaming(t *testing.T) {
	assert.Equal(t, "restaurant_42", Channel(42))
	assert.Equal(t, "restaurant_1", Channel(1))
}

func TestPublishDeliversChangeEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := &countingLogger{}
	pub := NewPublisher(rdb, log)

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, Channel(42))
	t.Cleanup(func() { sub.Close() })

	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	pub.Publish(ctx, 42, date, 7, ActionReservationCreated)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, Channel(42), msg.Channel)

		var event ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, int64(42), event.RestaurantID)
		assert.Equal(t, "2026-09-01", event.Date)
		assert.Equal(t, int64(7), event.SlotID)
		assert.Equal(t, ActionReservationCreated, event.Action)
	case <-time.After(time.Second):
		t.Fatal("no message received on restaurant channel")
	}

	assert.Equal(t, int64(0), atomic.LoadInt64(&log.warns))
}

func TestPublishSurvivesRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := &countingLogger{}
	pub := NewPublisher(rdb, log)

	mr.Close()

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	pub.Publish(context.Background(), 42, date, 7, ActionReservationCancelled)

	assert.Equal(t, int64(1), atomic.LoadInt64(&log.warns))
}
