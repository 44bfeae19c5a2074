package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/payment_instructions/internal/instruction"
	"github.com/congo-pay/payment_instructions/internal/ledger"
	"github.com/congo-pay/payment_instructions/internal/logging"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type failingNotifier struct{ err error }

func (n failingNotifier) Send(context.Context, Event) error { return n.err }

func executedEnvelope(t *testing.T) instruction.Envelope {
	t.Helper()
	env, err := instruction.NewProcessor().Process([]ledger.Account{
		{ID: "a", Balance: decimal.NewFromInt(230), Currency: "USD"},
		{ID: "b", Balance: decimal.NewFromInt(300), Currency: "USD"},
	}, "DEBIT 30 USD FROM ACCOUNT a FOR CREDIT TO ACCOUNT b")
	require.NoError(t, err)
	return env
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	ev := NewEvent("req-1", executedEnvelope(t), at)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "req-1", ev.RequestID)
	require.NotNil(t, ev.Type)
	assert.Equal(t, "DEBIT", *ev.Type)
	assert.Equal(t, "successful", ev.Status)
	assert.Equal(t, "AP00", ev.StatusCode)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
}

func TestNewEventFromMalformed(t *testing.T) {
	ev := NewEvent("", instruction.Malformed("bad body"), time.Now())
	assert.Nil(t, ev.Type)
	assert.Nil(t, ev.Amount)
	assert.Equal(t, "SY03", ev.StatusCode)
}

func TestKafkaNotifierPublishesJSON(t *testing.T) {
	w := &fakeWriter{}
	n := NewKafkaNotifier(w)
	ev := NewEvent("req-1", executedEnvelope(t), time.Now())

	require.NoError(t, n.Send(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, ev.ID, string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "AP00", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, ev.ID, body["event_id"])
	assert.Equal(t, float64(30), body["amount"])
	assert.Equal(t, "a", body["debit_account"])

	require.NoError(t, n.Close())
	assert.True(t, w.closed)
}

func TestKafkaNotifierWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	n := NewKafkaNotifier(&fakeWriter{err: boom})

	err := n.Send(context.Background(), NewEvent("", executedEnvelope(t), time.Now()))
	assert.ErrorIs(t, err, boom)
}

func TestLoggerNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(logging.NewWithWriter(&buf, "info", ""))

	require.NoError(t, n.Send(context.Background(), NewEvent("req-9", executedEnvelope(t), time.Now())))
	assert.Contains(t, buf.String(), "req-9")
	assert.Contains(t, buf.String(), "AP00")

	var nilNotifier *LoggerNotifier
	assert.NoError(t, nilNotifier.Send(context.Background(), Event{}))
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	first := &fakeWriter{}
	boom := errors.New("boom")
	m := Multi{NewKafkaNotifier(first), failingNotifier{err: boom}, nil}

	err := m.Send(context.Background(), NewEvent("", executedEnvelope(t), time.Now()))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, first.msgs, 1)

	assert.NoError(t, Multi{}.Send(context.Background(), Event{}))
}
