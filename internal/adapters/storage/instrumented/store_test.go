package instrumented

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/mock"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/config"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
	"github.com/jsamuelsen11/project-intake-service/mocks"
)

const testID = "507f1f77bcf86cd799439011"

var errBackend = errors.New("connection reset")

func testConfig() config.StoreConfig {
	return config.StoreConfig{
		Driver: config.DriverMemory,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   1,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestStore_DelegatesResults(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	want := &project.Project{ID: testID, ClientName: "John Doe"}
	repo.EXPECT().FindByID(mock.Anything, testID).Return(want, nil).Once()
	repo.EXPECT().Count(mock.Anything).Return(int64(7), nil).Once()
	repo.EXPECT().FindMany(mock.Anything, int64(10), int64(5)).Return([]project.Project{*want}, nil).Once()
	repo.EXPECT().Delete(mock.Anything, testID).Return(nil).Once()

	s := New(repo, testConfig(), "memory", nil, testLogger())
	ctx := context.Background()

	got, err := s.FindByID(ctx, testID)
	if err != nil || got != want {
		t.Errorf("FindByID() = %v, %v, want %v, nil", got, err, want)
	}
	if n, err := s.Count(ctx); err != nil || n != 7 {
		t.Errorf("Count() = %d, %v, want 7, nil", n, err)
	}
	if list, err := s.FindMany(ctx, 10, 5); err != nil || len(list) != 1 {
		t.Errorf("FindMany() = %v, %v, want one project", list, err)
	}
	if err := s.Delete(ctx, testID); err != nil {
		t.Errorf("Delete() = %v, want nil", err)
	}
}

func TestStore_StorageErrorsPassThroughUnchanged(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	serr := domain.ErrUniqueViolation(project.Resource, nil, "clientEmail")
	repo.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, serr)

	s := New(repo, testConfig(), "memory", nil, testLogger())

	_, err := s.Create(context.Background(), &project.Project{})

	var got *domain.StorageError
	if !errors.As(err, &got) || got != serr {
		t.Fatalf("Create() error = %v, want the repository's StorageError", err)
	}
}

func TestStore_StorageErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	repo.EXPECT().FindByID(mock.Anything, testID).
		Return(nil, domain.ErrRecordNotFound(project.Resource, nil)).Times(3)

	s := New(repo, testConfig(), "memory", nil, testLogger())

	for range 3 {
		_, err := s.FindByID(context.Background(), testID)
		if !domain.IsStorageCode(err, domain.StorageNotFound) {
			t.Fatalf("FindByID() error = %v, want not-found StorageError", err)
		}
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil (breaker closed)", err)
	}
}

func TestStore_CanceledContextDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	repo.EXPECT().Count(mock.Anything).Return(int64(0), context.Canceled).Twice()

	s := New(repo, testConfig(), "memory", nil, testLogger())

	for range 2 {
		if _, err := s.Count(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("Count() error = %v, want context.Canceled", err)
		}
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}

func TestStore_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	// Only the first call reaches the repository.
	repo.EXPECT().Count(mock.Anything).Return(int64(0), errBackend).Once()

	s := New(repo, testConfig(), "mongodb", nil, testLogger())

	if _, err := s.Count(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("first Count() error = %v, want %v", err, errBackend)
	}

	_, err := s.Count(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("second Count() error = %v, want gobreaker.ErrOpenState", err)
	}

	herr := s.HealthCheck(context.Background())
	if herr == nil || !strings.Contains(herr.Error(), "failing") {
		t.Errorf("HealthCheck() = %v, want error containing %q", herr, "failing")
	}
}

func TestStore_CircuitBreakerRecovery(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	repo.EXPECT().Count(mock.Anything).Return(int64(0), errBackend).Once()
	repo.EXPECT().Count(mock.Anything).Return(int64(4), nil).Once()

	s := New(repo, testConfig(), "mongodb", nil, testLogger())

	_, _ = s.Count(context.Background())

	// Wait for the breaker timeout so it transitions to half-open.
	time.Sleep(150 * time.Millisecond)

	if herr := s.HealthCheck(context.Background()); !errors.Is(herr, ports.ErrDegraded) {
		t.Errorf("HealthCheck() = %v, want ports.ErrDegraded", herr)
	}

	n, err := s.Count(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("Count() = %d, %v, want 4, nil (circuit should recover)", n, err)
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil after recovery", err)
	}
}

func TestStore_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	repo.EXPECT().Count(mock.Anything).Return(int64(1), nil).Once()

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{OperationsPerSecond: 0.001, Burst: 1}
	s := New(repo, cfg, "memory", nil, testLogger())

	// The burst token is spent on the first call.
	if _, err := s.Count(context.Background()); err != nil {
		t.Fatalf("first Count() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Count(ctx)
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Count() error = %v, want rate limit error", err)
	}
}

func TestStore_RecordsMetricsByResult(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(mp, "test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	repo := mocks.NewMockProjectRepository(t)
	repo.EXPECT().FindByID(mock.Anything, testID).Return(&project.Project{ID: testID}, nil).Once()
	repo.EXPECT().FindByID(mock.Anything, testID).Return(nil, domain.ErrRecordNotFound(project.Resource, nil)).Once()

	s := New(repo, testConfig(), "memory", metrics, testLogger())
	_, _ = s.FindByID(context.Background(), testID)
	_, _ = s.FindByID(context.Background(), testID)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "db.client.operation.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric data type = %T, want metricdata.Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				res, _ := dp.Attributes.Value(telemetry.AttrResult)
				op, _ := dp.Attributes.Value(telemetry.AttrDBOperation)
				if op.AsString() != "find_by_id" {
					t.Errorf("db.operation = %q, want find_by_id", op.AsString())
				}
				got[res.AsString()] += dp.Value
			}
		}
	}

	if got["success"] != 1 || got["not_found"] != 1 {
		t.Errorf("operation totals by result = %v, want success:1 not_found:1", got)
	}
}

func TestResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "success"},
		{"open breaker", gobreaker.ErrOpenState, "circuit_open"},
		{"half-open saturation", gobreaker.ErrTooManyRequests, "circuit_open"},
		{"unique violation", domain.ErrUniqueViolation(project.Resource, nil), "unique_violation"},
		{"malformed", domain.ErrMalformedQuery(project.Resource, nil), "malformed_query"},
		{"unclassified", errBackend, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := result(tt.err); got != tt.want {
				t.Errorf("result(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestToUint32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want uint32
	}{
		{-1, 0},
		{0, 0},
		{3, 3},
	}
	for _, tt := range tests {
		if got := toUint32(tt.in); got != tt.want {
			t.Errorf("toUint32(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStore_Name(t *testing.T) {
	t.Parallel()

	s := New(mocks.NewMockProjectRepository(t), testConfig(), "memory", nil, nil)
	if s.Name() != "project-store" {
		t.Errorf("Name() = %q, want project-store", s.Name())
	}
}
