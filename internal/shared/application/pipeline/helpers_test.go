package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lumina/internal/shared/application"
)

type album struct {
	ID   string
	Name string
}

type createAlbumCommand struct {
	application.CommandBase
	Name string
}

func (createAlbumCommand) RequestName() string { return "test.create_album" }

type renameAlbumCommand struct {
	application.CommandBase
	ID   string
	Name string
}

func (renameAlbumCommand) RequestName() string { return "test.rename_album" }

type getAlbumQuery struct {
	application.QueryBase
	ID string
}

func (getAlbumQuery) RequestName() string { return "test.get_album" }

type pingQuery struct {
	application.QueryBase
}

func (pingQuery) RequestName() string { return "test.ping" }

type ambiguousRequest struct {
	application.CommandBase
	application.QueryBase
}

func (ambiguousRequest) RequestName() string { return "test.ambiguous" }

// recorder collects pipeline events in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// fakeUnitOfWork counts scope operations.
type fakeUnitOfWork struct {
	mu        sync.Mutex
	rec       *recorder
	beginErr  error
	commitErr error
	begins    int
	commits   int
	rollbacks int
	closes    int
	flushes   int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (application.Scope, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.begins++
	if u.rec != nil {
		u.rec.add("tx:begin")
	}
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	return &fakeScope{uow: u, ctx: ctx}, nil
}

func (u *fakeUnitOfWork) counts() (begins, commits, rollbacks, closes int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.begins, u.commits, u.rollbacks, u.closes
}

type fakeScope struct {
	uow     *fakeUnitOfWork
	ctx     context.Context
	pending []application.PendingWrite
	hooks   []application.CommitHook
	done    bool
}

func (s *fakeScope) Context() context.Context { return s.ctx }

func (s *fakeScope) Enlist(write application.PendingWrite) {
	s.pending = append(s.pending, write)
}

func (s *fakeScope) AfterCommit(hook application.CommitHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *fakeScope) Flush(ctx context.Context) error {
	s.uow.mu.Lock()
	s.uow.flushes++
	s.uow.mu.Unlock()
	for _, write := range s.pending {
		if err := write(ctx); err != nil {
			return err
		}
	}
	s.pending = nil
	return nil
}

func (s *fakeScope) Commit(ctx context.Context) error {
	s.uow.mu.Lock()
	if s.uow.commitErr != nil {
		s.uow.mu.Unlock()
		return s.uow.commitErr
	}
	s.uow.commits++
	s.done = true
	if s.uow.rec != nil {
		s.uow.rec.add("tx:commit")
	}
	s.uow.mu.Unlock()

	for _, hook := range s.hooks {
		hook(ctx)
	}
	s.hooks = nil
	return nil
}

func (s *fakeScope) Rollback(ctx context.Context) error {
	s.uow.mu.Lock()
	defer s.uow.mu.Unlock()
	s.uow.rollbacks++
	s.done = true
	if s.uow.rec != nil {
		s.uow.rec.add("tx:rollback")
	}
	return nil
}

func (s *fakeScope) Close() error {
	s.uow.mu.Lock()
	defer s.uow.mu.Unlock()
	s.uow.closes++
	if !s.done {
		s.uow.rollbacks++
	}
	return nil
}

// logBuffer is a JSON slog sink that tests can decode.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(b, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (b *logBuffer) entries(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func (b *logBuffer) find(t *testing.T, msg string) map[string]any {
	t.Helper()
	for _, e := range b.entries(t) {
		if e["msg"] == msg {
			return e
		}
	}
	return nil
}

// nameRequired rejects empty album names.
func nameRequired(ctx context.Context, cmd createAlbumCommand) ([]application.ValidationFailure, error) {
	var v application.Violations
	if v.Check(cmd.Name != "", "Name", "Album name is required") {
		v.Check(len(cmd.Name) <= 200, "Name", "Album name must not exceed 200 characters")
	}
	return v.List(), nil
}

// standardDispatcher wires the three standard behaviors around reg.
func standardDispatcher(t *testing.T, reg *Registry, uow application.UnitOfWork, logs *logBuffer) *Dispatcher {
	t.Helper()
	logger := logs.logger()
	d, err := NewDispatcher(reg,
		NewLoggingBehavior(logger, nil),
		NewValidationBehavior(logger),
		NewTransactionBehavior(uow, logger),
	)
	require.NoError(t, err)
	return d
}
