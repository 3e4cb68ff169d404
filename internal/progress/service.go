package progress

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=progress_mocks_test.go -package=progress_test

// ErrFetchProgress is returned when the completed workouts could not be fetched.
var ErrFetchProgress = errors.New("fetch progress data")

type completedWorkoutsRepo interface {
	ListCompletedWorkouts(ctx context.Context, ownerID string) ([]workouts.CompletedWorkout, error)
}

type Service struct {
	repo           completedWorkoutsRepo
	metricsManager *metrics.Manager
}

func NewService(repo completedWorkoutsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

// Progress recomputes the owner's progress from the stored completed workouts.
func (s *Service) Progress(ctx context.Context, ownerID string) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	completed, err := s.repo.ListCompletedWorkouts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchProgress, err)
	}

	span.SetAttributes(attribute.Int("completed_workouts.count", len(completed)))
	s.metricsManager.CounterProgressQueries.Inc()

	return Aggregate(completed), nil
}
