package mcp

import (
	"context"

	"github.com/fitmix/backend/internal/progress"
	"github.com/fitmix/backend/internal/workouts"
)

type progressService interface {
	Progress(ctx context.Context, ownerID string) (*progress.Summary, error)
}

type programsRepo interface {
	ListPrograms(ctx context.Context, ownerID string) ([]workouts.Program, error)
}

// contextService provides a user's fitness context (progress, programs).
// Used by Handler for testability.
type contextService interface {
	GetProgress(ctx context.Context, userID string) (*progress.Summary, error)
	ListPrograms(ctx context.Context, userID string) ([]workouts.Program, error)
}

// ContextService holds dependencies and implements the fitness context business logic.
type ContextService struct {
	progress progressService
	programs programsRepo
}

func NewContextService(progressService progressService, programsRepo programsRepo) *ContextService {
	return &ContextService{
		progress: progressService,
		programs: programsRepo,
	}
}

// GetProgress returns the per muscle group progress summary of the user.
func (s *ContextService) GetProgress(ctx context.Context, userID string) (*progress.Summary, error) {
	return s.progress.Progress(ctx, userID)
}

// ListPrograms returns the user's workout programs, newest first.
func (s *ContextService) ListPrograms(ctx context.Context, userID string) ([]workouts.Program, error) {
	programs, err := s.programs.ListPrograms(ctx, userID)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []workouts.Program{}
	}
	return programs, nil
}
