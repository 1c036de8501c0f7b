package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

// ErrScopeDone is returned when a finished scope is committed or flushed again.
var ErrScopeDone = errors.New("persistence scope already finished")

// UnitOfWork opens transaction-backed scopes on a connection.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a UnitOfWork for conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

var _ application.UnitOfWork = (*UnitOfWork)(nil)

// Begin starts a transaction and returns a scope whose context carries it.
// When ctx already carries a transaction the scope joins it without owning
// it, so only the outermost scope commits or rolls back.
func (u *UnitOfWork) Begin(ctx context.Context) (application.Scope, error) {
	if info, ok := TxInfoFromContext(ctx); ok {
		parent, _ := application.ScopeFromContext(ctx)
		return &Scope{ctx: WithTx(ctx, info.Tx, false), tx: info.Tx, parent: parent}, nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &Scope{ctx: WithTx(ctx, tx, true), tx: tx, owned: true}, nil
}

// Scope is one transaction plus the writes enlisted against it and the
// hooks waiting for it to commit.
type Scope struct {
	ctx    context.Context
	tx     Transaction
	owned  bool
	parent application.Scope

	mu      sync.Mutex
	pending []application.PendingWrite
	hooks   []application.CommitHook
	done    bool
}

// Context returns the context carrying the transaction.
func (s *Scope) Context() context.Context { return s.ctx }

// Enlist queues write for the next Flush.
func (s *Scope) Enlist(write application.PendingWrite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, write)
}

// AfterCommit queues hook until the transaction commits. A scope that joined
// an outer transaction hands the hook to the outer scope when it has one.
func (s *Scope) AfterCommit(hook application.CommitHook) {
	if !s.owned && s.parent != nil {
		s.parent.AfterCommit(hook)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Flush runs the queued writes in enlistment order, including writes
// enlisted by earlier writes. It stops at the first error.
func (s *Scope) Flush(ctx context.Context) error {
	for i := 0; ; i++ {
		s.mu.Lock()
		if s.done {
			s.mu.Unlock()
			return ErrScopeDone
		}
		if i >= len(s.pending) {
			s.pending = nil
			s.mu.Unlock()
			return nil
		}
		write := s.pending[i]
		s.mu.Unlock()

		if err := write(ctx); err != nil {
			return fmt.Errorf("pending write %d: %w", i, err)
		}
	}
}

// Commit commits the transaction if the scope owns it, then runs the commit
// hooks in registration order. A failed commit leaves the hooks unrun for
// Close to discard.
func (s *Scope) Commit(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return ErrScopeDone
	}
	if s.owned {
		if err := s.tx.Commit(ctx); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.done = true
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range hooks {
		hook(hookCtx)
	}
	return nil
}

// Rollback rolls back the transaction if the scope owns it. Rolling back a
// finished scope is a no-op.
func (s *Scope) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked(ctx)
}

// Close rolls back a scope that was neither committed nor rolled back.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked(context.WithoutCancel(s.ctx))
}

func (s *Scope) rollbackLocked(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	s.pending = nil
	s.hooks = nil
	if !s.owned {
		return nil
	}
	if err := s.tx.Rollback(ctx); err != nil && !isTxDone(err) {
		return err
	}
	return nil
}

// isTxDone reports errors raised by drivers for an already finished transaction.
func isTxDone(err error) bool {
	return errors.Is(err, sql.ErrTxDone) || errors.Is(err, pgx.ErrTxClosed)
}
