package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/internal/workouts"
	"github.com/fitmix/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=generator_test

type programsRepo interface {
	AddProgram(ctx context.Context, program workouts.Program) (*workouts.Program, error)
}

type GenerateProgramRequest struct {
	ProgramRequest
	Save bool `json:"save"`
}

type GenerateProgramResponse struct {
	Days    []WorkoutDay      `json:"days"`
	Program *workouts.Program `json:"program,omitempty"`
}

type GenerateMealRequest struct {
	Ingredients string `json:"ingredients"`
}

type Handler struct {
	service      *Service
	programsRepo programsRepo
}

func NewHandler(service *Service, programsRepo programsRepo) *Handler {
	return &Handler{
		service:      service,
		programsRepo: programsRepo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/program", handler.HandleGenerateProgram).Methods("POST", "OPTIONS").Name("generate-program")
	router.HandleFunc("/meal", handler.HandleGenerateMeal).Methods("POST", "OPTIONS").Name("generate-meal")
}

func (handler *Handler) HandleGenerateProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.generator.program")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req GenerateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("generate program, unmarshal json: %s", err)
		http.Error(w, "generate program failed", http.StatusBadRequest)
		return
	}

	days, err := handler.service.GenerateProgram(ctx, req.ProgramRequest)
	if err != nil {
		writeGenerationError(w, "generate program", err)
		return
	}

	if len(days) == 0 {
		pkg.WriteJSON(w, GenerateProgramResponse{Days: days}, http.StatusUnprocessableEntity)
		return
	}

	resp := GenerateProgramResponse{Days: days}
	if req.Save {
		saved, err := handler.programsRepo.AddProgram(ctx, toProgram(ownerID, req.Goal, days))
		if err != nil {
			log.Errorf("failed to save generated program for %s: %s", ownerID, err)
			http.Error(w, "error, failed to save generated program", http.StatusInternalServerError)
			return
		}
		resp.Program = saved
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleGenerateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.generator.meal")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req GenerateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "generate meal failed", http.StatusBadRequest)
		return
	}

	meal, err := handler.service.GenerateMeal(ctx, req.Ingredients)
	if err != nil {
		writeGenerationError(w, "generate meal", err)
		return
	}

	pkg.WriteJSON(w, meal, http.StatusOK)
}

func writeGenerationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidResponse):
		http.Error(w, "generation failed, try again", http.StatusUnprocessableEntity)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "generation failed, try again", http.StatusBadGateway)
	}
}

func toProgram(ownerID, goal string, days []WorkoutDay) workouts.Program {
	programDays := make([]workouts.Day, 0, len(days))
	for _, d := range days {
		exercises := make([]workouts.ProgramExercise, 0, len(d.Exercises))
		for _, ex := range d.Exercises {
			exercises = append(exercises, workouts.ProgramExercise{
				Name:        ex.Name,
				Sets:        ex.Sets,
				Reps:        ex.Reps,
				Description: ex.Description,
			})
		}
		programDays = append(programDays, workouts.Day{
			Day:       d.Day,
			Exercises: exercises,
		})
	}

	return workouts.Program{
		OwnerID:   ownerID,
		Name:      ProgramName(goal),
		Type:      workouts.ProgramTypeAI,
		Days:      programDays,
		CreatedAt: time.Now().UTC(),
	}
}
