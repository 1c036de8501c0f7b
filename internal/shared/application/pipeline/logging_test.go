package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
	"github.com/felixgeelhaar/lumina/pkg/observability"
)

func TestLoggingBehavior_Handle(t *testing.T) {
	call := &Call{
		Request:       createAlbumCommand{Name: "Trip"},
		Name:          "test.create_album",
		Type:          "pipeline.createAlbumCommand",
		Kind:          application.KindCommand,
		CorrelationID: "corr-42",
	}

	t.Run("logs start and completion", func(t *testing.T) {
		logs := &logBuffer{}
		metrics := observability.NewInMemoryMetrics()
		b := NewLoggingBehavior(logs.logger(), metrics)

		resp, err := b.Handle(context.Background(), call, func(context.Context) (application.Response, error) {
			return application.Success(album{Name: "Trip"}), nil
		})

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())

		start := logs.find(t, "request started")
		require.NotNil(t, start)
		assert.Equal(t, "pipeline.createAlbumCommand", start["request_type"])
		assert.Equal(t, "corr-42", start[observability.CorrelationIDKey])
		assert.Contains(t, start["request"], "Trip")

		done := logs.find(t, "request completed")
		require.NotNil(t, done)
		assert.Equal(t, "INFO", done["level"])
		assert.Contains(t, done, observability.DurationKey)
		assert.Equal(t, true, done["success"])

		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOperationTotal,
			observability.T("kind", "command"), observability.T("operation", "test.create_album")))
	})

	t.Run("failure outcome is a normal completion", func(t *testing.T) {
		logs := &logBuffer{}
		b := NewLoggingBehavior(logs.logger(), nil)

		resp, err := b.Handle(context.Background(), call, func(context.Context) (application.Response, error) {
			return application.Failure[album]("Album not found"), nil
		})

		require.NoError(t, err)
		assert.False(t, resp.IsSuccess())
		for _, e := range logs.entries(t) {
			assert.NotEqual(t, "ERROR", e["level"])
		}
		done := logs.find(t, "request completed")
		require.NotNil(t, done)
		assert.Equal(t, "Album not found", done["failure"])
	})

	t.Run("logs and re-raises errors unchanged", func(t *testing.T) {
		logs := &logBuffer{}
		b := NewLoggingBehavior(logs.logger(), nil)
		handlerErr := errors.New("connection reset")

		resp, err := b.Handle(context.Background(), call, func(context.Context) (application.Response, error) {
			return nil, handlerErr
		})

		assert.Nil(t, resp)
		assert.Same(t, handlerErr, err)

		entry := logs.find(t, "request errored")
		require.NotNil(t, entry)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "connection reset", entry[observability.ErrorKey])
		assert.Contains(t, entry, observability.DurationKey)
		assert.Contains(t, entry["request"], "Trip")
		assert.Nil(t, logs.find(t, "request completed"))
	})

	t.Run("logs and re-raises panics", func(t *testing.T) {
		logs := &logBuffer{}
		b := NewLoggingBehavior(logs.logger(), nil)

		assert.PanicsWithValue(t, "nil map write", func() {
			_, _ = b.Handle(context.Background(), call, func(context.Context) (application.Response, error) {
				panic("nil map write")
			})
		})

		entry := logs.find(t, "request panicked")
		require.NotNil(t, entry)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Contains(t, entry, observability.DurationKey)
	})
}
