// Package session runs each request against the store as one transaction.
//
// A Session is acquired, used through its Store, committed on success and
// always released. Release rolls back anything that was not committed.
package session

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"posts/internal/middleware"
	"posts/internal/models"
	"posts/internal/observability"
	"posts/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ErrFinished is returned by Commit on a session that already committed or
// was released.
var ErrFinished = errors.New("session: already finished")

// Manager opens sessions on a store handle.
type Manager struct {
	db *gorm.DB
}

// NewManager returns a Manager bound to db.
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Session is a single unit of work.
type Session struct {
	tx        *gorm.DB
	store     repository.Store
	operation string
	start     time.Time
	span      *observability.Span
	finished  bool
	released  bool
}

// Acquire begins a transaction for operation. Failing to begin is reported as
// the store being unavailable.
func (m *Manager) Acquire(ctx context.Context, operation string) (context.Context, *Session, error) {
	span, ctx := observability.NewSpan(ctx, "session."+operation,
		attribute.String("db.system", m.db.Dialector.Name()),
		attribute.String("session.operation", operation),
	)
	start := time.Now()

	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		span.SetError(tx.Error)
		span.End()
		observability.ObserveSession(operation, observability.OutcomeBeginFailed, start)
		middleware.Logger.ErrorContext(ctx, "Failed to begin transaction",
			slog.String("operation", operation),
			slog.String("error", tx.Error.Error()),
		)
		return ctx, nil, models.NewUnavailableError(tx.Error)
	}

	return ctx, &Session{
		tx:        tx,
		store:     repository.NewStore(tx),
		operation: operation,
		start:     start,
		span:      span,
	}, nil
}

// Store returns the repositories bound to this session's transaction.
func (s *Session) Store() repository.Store {
	return s.store
}

// Commit makes the staged writes durable. A constraint violation raised at
// commit time is returned as the matching store sentinel; any other commit
// failure is reported as the store being unavailable.
func (s *Session) Commit() error {
	if s.finished {
		return ErrFinished
	}
	s.finished = true

	if err := s.tx.Commit().Error; err != nil {
		s.span.SetError(err)
		observability.ObserveSession(s.operation, observability.OutcomeCommitFailed, s.start)

		if translated := repository.Translate(err); repository.IsStoreOutcome(translated) {
			return translated
		}
		middleware.Logger.ErrorContext(s.tx.Statement.Context, "Failed to commit transaction",
			slog.String("operation", s.operation),
			slog.String("error", err.Error()),
		)
		return models.NewUnavailableError(err)
	}

	observability.ObserveSession(s.operation, observability.OutcomeCommitted, s.start)
	return nil
}

// Release ends the session, rolling back if Commit was never called. It is
// safe to call more than once.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	defer s.span.End()

	if s.finished {
		return
	}
	s.finished = true

	if err := s.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		middleware.Logger.WarnContext(s.tx.Statement.Context, "Failed to roll back transaction",
			slog.String("operation", s.operation),
			slog.String("error", err.Error()),
		)
	}
	observability.ObserveSession(s.operation, observability.OutcomeRolledBack, s.start)
}

// Run executes fn inside a fresh session. fn's error, or a panic, rolls the
// transaction back before propagating.
func (m *Manager) Run(ctx context.Context, operation string, fn func(ctx context.Context, store repository.Store) error) error {
	ctx, sess, err := m.Acquire(ctx, operation)
	if err != nil {
		return err
	}
	defer sess.Release()

	if err := fn(ctx, sess.Store()); err != nil {
		sess.span.SetError(err)
		return err
	}
	return sess.Commit()
}
