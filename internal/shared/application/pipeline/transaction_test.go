package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

// mockUnitOfWork is a mock implementation of application.UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (application.Scope, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(application.Scope), args.Error(1)
}

// mockScope is a mock implementation of application.Scope.
type mockScope struct {
	mock.Mock
	ctx context.Context
}

func (m *mockScope) Context() context.Context                { return m.ctx }
func (m *mockScope) Enlist(write application.PendingWrite)   { m.Called() }
func (m *mockScope) AfterCommit(hook application.CommitHook) { m.Called() }

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

func commandCall(kind application.RequestKind) *Call {
	return &Call{
		Request: createAlbumCommand{Name: "Trip"},
		Name:    "test.create_album",
		Type:    "pipeline.createAlbumCommand",
		Kind:    kind,
	}
}

func TestTransactionBehavior_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Flush", mock.Anything).Return(nil)
		scope.On("Commit", mock.Anything).Return(nil).Once()
		scope.On("Close").Return(nil).Once()

		b := NewTransactionBehavior(uow, nil)
		resp, err := b.Handle(ctx, commandCall(application.KindCommand), func(txCtx context.Context) (application.Response, error) {
			got, ok := application.ScopeFromContext(txCtx)
			require.True(t, ok, "handler context must carry the scope")
			assert.Same(t, scope, got)
			return application.Success(album{Name: "Trip"}), nil
		})

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		uow.AssertExpectations(t)
		scope.AssertExpectations(t)
		scope.AssertNotCalled(t, "Rollback", mock.Anything)
	})

	t.Run("rolls back on failure outcome", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Rollback", mock.Anything).Return(nil).Once()
		scope.On("Close").Return(nil).Once()

		b := NewTransactionBehavior(uow, nil)
		failure := application.Failure[album]("Album not found")
		resp, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			return failure, nil
		})

		require.NoError(t, err)
		assert.Equal(t, failure, resp)
		scope.AssertExpectations(t)
		scope.AssertNotCalled(t, "Commit", mock.Anything)
		scope.AssertNotCalled(t, "Flush", mock.Anything)
	})

	t.Run("rolls back and returns handler error unchanged", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Rollback", mock.Anything).Return(nil).Once()
		scope.On("Close").Return(nil).Once()

		handlerErr := errors.New("disk full")
		b := NewTransactionBehavior(uow, nil)
		_, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			return nil, handlerErr
		})

		assert.Same(t, handlerErr, err)
		scope.AssertExpectations(t)
		scope.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Rollback", mock.Anything).Return(nil).Once()
		scope.On("Close").Return(nil).Once()

		b := NewTransactionBehavior(uow, nil)
		assert.PanicsWithValue(t, "boom", func() {
			_, _ = b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
				panic("boom")
			})
		})
		scope.AssertExpectations(t)
		scope.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("rollback error does not mask handler error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Rollback", mock.Anything).Return(errors.New("rollback failed"))
		scope.On("Close").Return(nil)

		handlerErr := errors.New("handler error")
		b := NewTransactionBehavior(uow, nil)
		_, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			return nil, handlerErr
		})

		assert.Same(t, handlerErr, err)
	})

	t.Run("flush error rolls back", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		flushErr := errors.New("outbox insert failed")
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Flush", mock.Anything).Return(flushErr)
		scope.On("Rollback", mock.Anything).Return(nil).Once()
		scope.On("Close").Return(nil)

		b := NewTransactionBehavior(uow, nil)
		_, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			return application.Ok(), nil
		})

		assert.ErrorIs(t, err, flushErr)
		scope.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("commit error is returned and scope released", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		scope := &mockScope{ctx: ctx}
		commitErr := errors.New("serialization failure")
		uow.On("Begin", ctx).Return(scope, nil)
		scope.On("Flush", mock.Anything).Return(nil)
		scope.On("Commit", mock.Anything).Return(commitErr)
		scope.On("Close").Return(nil).Once()

		b := NewTransactionBehavior(uow, nil)
		_, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			return application.Ok(), nil
		})

		assert.ErrorIs(t, err, commitErr)
		scope.AssertExpectations(t)
	})

	t.Run("begin error skips handler", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		beginErr := errors.New("pool exhausted")
		uow.On("Begin", ctx).Return(nil, beginErr)

		called := false
		b := NewTransactionBehavior(uow, nil)
		_, err := b.Handle(ctx, commandCall(application.KindCommand), func(context.Context) (application.Response, error) {
			called = true
			return application.Ok(), nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})

	t.Run("queries pass through", func(t *testing.T) {
		uow := new(mockUnitOfWork)

		b := NewTransactionBehavior(uow, nil)
		resp, err := b.Handle(ctx, commandCall(application.KindQuery), func(txCtx context.Context) (application.Response, error) {
			_, ok := application.ScopeFromContext(txCtx)
			assert.False(t, ok)
			return application.Failure[album]("Album not found"), nil
		})

		require.NoError(t, err)
		assert.False(t, resp.IsSuccess())
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

func TestTransactionBehavior_CancelledContextStillRollsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	uow := new(mockUnitOfWork)
	scope := &mockScope{ctx: ctx}
	uow.On("Begin", ctx).Return(scope, nil)
	scope.On("Rollback", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	})).Return(nil).Once()
	scope.On("Close").Return(nil)

	b := NewTransactionBehavior(uow, nil)
	_, err := b.Handle(ctx, commandCall(application.KindCommand), func(txCtx context.Context) (application.Response, error) {
		cancel()
		<-txCtx.Done()
		return nil, txCtx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	scope.AssertExpectations(t)
}

func TestTransactionBehavior_FlushesEnlistedWrites(t *testing.T) {
	uow := &fakeUnitOfWork{}
	var written []string

	reg := NewRegistry()
	RegisterCommand(reg, application.CommandHandlerFunc[createAlbumCommand, album](
		func(ctx context.Context, cmd createAlbumCommand) (application.Outcome[album], error) {
			err := application.Enlist(ctx, func(ctx context.Context) error {
				written = append(written, cmd.Name)
				return nil
			})
			if err != nil {
				return application.Outcome[album]{}, err
			}
			if cmd.Name == "reject" {
				return application.Failure[album]("rejected"), nil
			}
			return application.Success(album{Name: cmd.Name}), nil
		}))
	d := standardDispatcher(t, reg, uow, &logBuffer{})

	_, err := Send[album](context.Background(), d, createAlbumCommand{Name: "kept"})
	require.NoError(t, err)
	_, err = Send[album](context.Background(), d, createAlbumCommand{Name: "reject"})
	require.NoError(t, err)

	assert.Equal(t, []string{"kept"}, written, "writes of a rolled back scope never run")
}
