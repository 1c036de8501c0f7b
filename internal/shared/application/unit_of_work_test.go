package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockScope is a mock implementation of Scope.
type mockScope struct {
	mock.Mock
	ctx     context.Context
	pending []PendingWrite
	hooks   []CommitHook
}

func (m *mockScope) Context() context.Context { return m.ctx }

func (m *mockScope) Enlist(write PendingWrite) {
	m.Called()
	m.pending = append(m.pending, write)
}

func (m *mockScope) AfterCommit(hook CommitHook) {
	m.Called()
	m.hooks = append(m.hooks, hook)
}

func (m *mockScope) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockScope) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockScope) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockScope) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestScopeFromContext(t *testing.T) {
	t.Run("returns stored scope", func(t *testing.T) {
		scope := &mockScope{}
		ctx := WithScope(context.Background(), scope)

		got, ok := ScopeFromContext(ctx)
		require.True(t, ok)
		assert.Same(t, scope, got)
	})

	t.Run("reports missing scope", func(t *testing.T) {
		_, ok := ScopeFromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestEnlist(t *testing.T) {
	t.Run("defers write to scope", func(t *testing.T) {
		scope := &mockScope{}
		scope.On("Enlist").Return()
		ctx := WithScope(context.Background(), scope)

		ran := false
		err := Enlist(ctx, func(ctx context.Context) error {
			ran = true
			return nil
		})

		require.NoError(t, err)
		assert.False(t, ran, "write should wait for flush")
		require.Len(t, scope.pending, 1)
		require.NoError(t, scope.pending[0](ctx))
		assert.True(t, ran)
		scope.AssertExpectations(t)
	})

	t.Run("runs immediately without scope", func(t *testing.T) {
		writeErr := errors.New("write failed")

		err := Enlist(context.Background(), func(ctx context.Context) error {
			return writeErr
		})

		assert.Equal(t, writeErr, err)
	})
}

func TestAfterCommit(t *testing.T) {
	t.Run("defers hook to scope", func(t *testing.T) {
		scope := &mockScope{}
		scope.On("AfterCommit").Return()
		ctx := WithScope(context.Background(), scope)

		ran := false
		AfterCommit(ctx, func(context.Context) { ran = true })

		assert.False(t, ran, "hook should wait for commit")
		require.Len(t, scope.hooks, 1)
		scope.hooks[0](ctx)
		assert.True(t, ran)
		scope.AssertExpectations(t)
	})

	t.Run("runs immediately without scope", func(t *testing.T) {
		ran := false
		AfterCommit(context.Background(), func(context.Context) { ran = true })
		assert.True(t, ran)
	})
}
