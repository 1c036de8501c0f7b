package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPublisher struct {
	mu    sync.Mutex
	fail  bool
	calls int
	sent  []Envelope
}

func (p *flakyPublisher) Publish(_ context.Context, env Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return errors.New("connection reset")
	}
	p.sent = append(p.sent, env)
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

func (p *flakyPublisher) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	next := &flakyPublisher{}
	p := NewBreakerPublisher(next, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, nil)

	env := Envelope{MessageID: "1", RoutingKey: "album.created", Payload: []byte(`{}`)}
	require.NoError(t, p.Publish(context.Background(), env))

	assert.Equal(t, []Envelope{env}, next.sent)
	assert.Equal(t, "closed", p.State())
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &flakyPublisher{fail: true}
	p := NewBreakerPublisher(next, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, nil)
	ctx := context.Background()

	assert.EqualError(t, p.Publish(ctx, Envelope{}), "connection reset")
	assert.EqualError(t, p.Publish(ctx, Envelope{}), "connection reset")
	assert.Equal(t, "open", p.State())

	err := p.Publish(ctx, Envelope{})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerPublisher_RecoversAfterTimeout(t *testing.T) {
	next := &flakyPublisher{fail: true}
	p := NewBreakerPublisher(next, BreakerConfig{MaxFailures: 1, OpenTimeout: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	require.Error(t, p.Publish(ctx, Envelope{}))
	require.Equal(t, "open", p.State())

	next.setFail(false)
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, p.Publish(ctx, Envelope{RoutingKey: "album.renamed"}))
	assert.Equal(t, "closed", p.State())
}

func TestToPublishing(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pub := toPublishing(Envelope{
		MessageID:     "m-1",
		RoutingKey:    "album.created",
		CorrelationID: "c-1",
		Payload:       []byte(`{"name":"Summer"}`),
		Timestamp:     ts,
	})

	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, "m-1", pub.MessageId)
	assert.Equal(t, "c-1", pub.CorrelationId)
	assert.Equal(t, "album.created", pub.Type)
	assert.Equal(t, ts, pub.Timestamp)
	assert.Equal(t, uint8(2), pub.DeliveryMode)

	assert.False(t, toPublishing(Envelope{}).Timestamp.IsZero())
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), Envelope{RoutingKey: "album.deleted"}))
	assert.NoError(t, p.Close())
}
