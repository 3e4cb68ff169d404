package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=generator_test

// ErrGeneration is returned when the generative text API call fails.
var ErrGeneration = errors.New("text generation failed")

const (
	kindProgram = "program"
	kindMeal    = "meal"

	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// TextGenerator is a single shot prompt in, text out generative API.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	generator      TextGenerator
	metricsManager *metrics.Manager
}

func NewService(generator TextGenerator, metricsManager *metrics.Manager) *Service {
	return &Service{
		generator:      generator,
		metricsManager: metricsManager,
	}
}

// GenerateProgram asks the generator for a workout program. A response that
// fails validation yields an empty list and no error.
func (s *Service) GenerateProgram(ctx context.Context, req ProgramRequest) (_ []WorkoutDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.generator.program")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("goal", req.Goal),
		attribute.String("experience", req.Experience),
		attribute.Int("days_per_week", req.DaysPerWeek),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, kindProgram, programPrompt(req))
	if err != nil {
		return nil, err
	}

	days := ValidateProgram(text, req.DaysPerWeek)
	if len(days) == 0 {
		s.metricsManager.CounterGenerations.WithLabelValues(kindProgram, outcomeRejected).Inc()
		log.Debugf("raw rejected program response: %s", text)
		return days, nil
	}

	s.metricsManager.CounterGenerations.WithLabelValues(kindProgram, outcomeOK).Inc()
	span.SetAttributes(attribute.Int("days.count", len(days)))
	return days, nil
}

// GenerateMeal asks the generator for a meal made of the given ingredients.
// A malformed response is reported as ErrInvalidResponse.
func (s *Service) GenerateMeal(ctx context.Context, ingredients string) (_ *MealSuggestion, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.generator.meal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, fmt.Errorf("%w: no ingredients", ErrInvalidRequest)
	}

	text, err := s.generate(ctx, kindMeal, mealPrompt(ingredients))
	if err != nil {
		return nil, err
	}

	meal, err := ParseMealSuggestion(text)
	if err != nil {
		s.metricsManager.CounterGenerations.WithLabelValues(kindMeal, outcomeRejected).Inc()
		log.Warnf("generated meal rejected: %s", err)
		return nil, err
	}

	s.metricsManager.CounterGenerations.WithLabelValues(kindMeal, outcomeOK).Inc()
	return meal, nil
}

func (s *Service) generate(ctx context.Context, kind, prompt string) (string, error) {
	start := time.Now()
	text, err := s.generator.GenerateText(ctx, prompt)
	s.metricsManager.HistogramGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metricsManager.CounterGenerations.WithLabelValues(kind, outcomeFailed).Inc()
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return text, nil
}
