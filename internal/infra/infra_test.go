package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClientErrors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewKafkaWriter(t *testing.T) {
	w, err := NewKafkaWriter([]string{"b1:9092", "b2:9092"}, "decisions", nil)
	require.NoError(t, err)

	assert.Equal(t, "decisions", w.Topic)
	assert.NotNil(t, w.Addr)
	assert.True(t, w.Async)
	assert.IsType(t, &kafka.LeastBytes{}, w.Balancer)

	_, err = NewKafkaWriter(nil, "decisions", nil)
	assert.Error(t, err)
	_, err = NewKafkaWriter([]string{"b1:9092"}, "", nil)
	assert.Error(t, err)
}
