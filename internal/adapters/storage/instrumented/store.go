// Package instrumented decorates a [ports.ProjectRepository] with the
// resilience and observability the service applies to every persistence call:
//
//	Rate Limiter → Circuit Breaker → OTEL Span → Repository
//
// Classified storage failures (unique violation, not found, malformed query)
// are caused by the request, not the backend, so they never trip the breaker.
// Neither does a canceled request.
package instrumented

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/config"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

// Name identifies the decorator in readiness results.
const Name = "project-store"

var (
	_ ports.ProjectRepository = (*Store)(nil)
	_ ports.HealthChecker     = (*Store)(nil)
)

// Store wraps a repository with a circuit breaker, an optional rate limiter,
// a span per operation and store metrics.
type Store struct {
	next    ports.ProjectRepository
	system  string
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter // nil when rate limiting is disabled
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New wraps next. system names the backend in spans and metrics (for example
// "mongodb" or "memory"). If metrics is nil, metric recording is skipped.
func New(next ports.ProjectRepository, cfg config.StoreConfig, system string, metrics *telemetry.Metrics, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        Name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: isBackendHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.OperationsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.OperationsPerSecond), cfg.RateLimit.Burst)
	}

	return &Store{
		next:    next,
		system:  system,
		breaker: cb,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return Name }

// HealthCheck reports the backend's availability from the circuit breaker
// state. No call is made to the backend.
func (s *Store) HealthCheck(_ context.Context) error {
	switch state := s.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: circuit breaker half-open: %w", Name, ports.ErrDegraded)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", Name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", Name, state)
	}
}

func (s *Store) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	var out *project.Project
	err := s.run(ctx, "create", func(ctx context.Context) error {
		var err error
		out, err = s.next.Create(ctx, p)
		return err
	})
	return out, err
}

func (s *Store) FindByID(ctx context.Context, id string) (*project.Project, error) {
	var out *project.Project
	err := s.run(ctx, "find_by_id", func(ctx context.Context) error {
		var err error
		out, err = s.next.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (s *Store) FindMany(ctx context.Context, skip, take int64) ([]project.Project, error) {
	var out []project.Project
	err := s.run(ctx, "find_many", func(ctx context.Context) error {
		var err error
		out, err = s.next.FindMany(ctx, skip, take)
		return err
	})
	return out, err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var out int64
	err := s.run(ctx, "count", func(ctx context.Context) error {
		var err error
		out, err = s.next.Count(ctx)
		return err
	})
	return out, err
}

func (s *Store) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	var out *project.Project
	err := s.run(ctx, "update", func(ctx context.Context) error {
		var err error
		out, err = s.next.Update(ctx, id, patch)
		return err
	})
	return out, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.run(ctx, "delete", func(ctx context.Context) error {
		return s.next.Delete(ctx, id)
	})
}

// run executes fn through the rate limiter, circuit breaker and a span, and
// records metrics for the outcome. Breaker rejections are recorded too.
func (s *Store) run(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.recordMetrics(ctx, op, start, err)
			return fmt.Errorf("store %s: rate limit: %w", op, err)
		}
	}

	_, err := s.breaker.Execute(func() (struct{}, error) {
		spanCtx, span := s.startSpan(ctx, op)
		defer span.End()

		err := fn(spanCtx)
		finishSpan(span, err)
		return struct{}{}, err
	})

	s.recordMetrics(ctx, op, start, err)
	return err
}

func (s *Store) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("store")
	return tracer.Start(ctx, fmt.Sprintf("%s %s", s.system, op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			telemetry.AttrDBSystem.String(s.system),
			telemetry.AttrDBOperation.String(op),
		),
	)
}

// finishSpan marks the span failed only for backend failures. Classified
// storage failures are recorded as an attribute.
func finishSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	var serr *domain.StorageError
	if errors.As(err, &serr) {
		span.SetAttributes(attribute.String("db.storage_error", serr.Code.String()))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordMetrics records store operation duration and count. Safe to call with
// nil metrics.
func (s *Store) recordMetrics(ctx context.Context, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrDBSystem.String(s.system),
		telemetry.AttrDBOperation.String(op),
		telemetry.AttrResult.String(result(err)),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

// result is the metric label for an operation outcome.
func result(err error) string {
	var serr *domain.StorageError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.As(err, &serr):
		return serr.Code.String()
	default:
		return "error"
	}
}

// isBackendHealthy reports whether err leaves the backend's health intact.
func isBackendHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var serr *domain.StorageError
	return errors.As(err, &serr)
}

// toUint32 converts a non-negative int to uint32, clamping at the uint32
// maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
