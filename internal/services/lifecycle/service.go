package lifecycle

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Service runs the job, application and review transitions. Every call
// re-reads the rows it decides on; nothing mutable is cached between calls.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer("gigboard/lifecycle"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) startSpan(ctx context.Context, name string, sess Session) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "lifecycle."+name)
	if sess.Authenticated() {
		span.SetAttributes(
			attribute.String("account.id", sess.AccountID.String()),
			attribute.String("account.role", string(sess.Role)),
		)
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	span.End()
}

// storageErr logs the driver error and hides it behind StorageUnavailable.
func (s *Service) storageErr(op string, err error) error {
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return StorageUnavailable("storage is unavailable, try again", err)
}

// lookupErr classifies a failed read of a single row.
func (s *Service) lookupErr(op, what string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFound(what+" not found", err)
	}
	return s.storageErr(op, err)
}

func (s *Service) notify(ctx context.Context, change Change) {
	if s.notifier == nil {
		return
	}
	change.At = s.now()
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Warn("change notification failed",
			zap.String("collection", string(change.Collection)),
			zap.String("id", change.ID.String()),
			zap.Error(err))
	}
}

func requireSession(sess Session) error {
	if !sess.Authenticated() {
		return Unauthenticated("sign in required")
	}
	return nil
}
