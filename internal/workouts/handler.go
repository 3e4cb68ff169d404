package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/telemetry/metrics"
	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	AddProgram(ctx context.Context, program Program) (*Program, error)
	GetProgram(ctx context.Context, id, ownerID string) (*Program, error)
	ListPrograms(ctx context.Context, ownerID string) ([]Program, error)
	UpdateProgram(ctx context.Context, program *Program) error
	SetProgramCompleted(ctx context.Context, id, ownerID string, completed bool) error
	DeleteProgram(ctx context.Context, id, ownerID string) error
	AddCompletedWorkout(ctx context.Context, workout CompletedWorkout) (*CompletedWorkout, error)
	ListCompletedWorkouts(ctx context.Context, ownerID string) ([]CompletedWorkout, error)
}

type ListProgramsResponse struct {
	Programs []Program `json:"programs"`
	Total    int       `json:"total"`
}

type ListCompletedResponse struct {
	CompletedWorkouts []CompletedWorkout `json:"completedWorkouts"`
	Total             int                `json:"total"`
}

type UpdateProgramResponse struct {
	UpdatedID string `json:"updatedId"`
}

type DeleteProgramResponse struct {
	DeletedID string `json:"deletedId"`
}

type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}

type Handler struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the workouts routes. The completed routes go first,
// so "completed" is never taken for a program id.
func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/completed", handler.HandleAddCompleted).Methods("POST", "OPTIONS").Name("add-completed-workout")
	router.HandleFunc("/completed", handler.HandleListCompleted).Methods("GET").Name("list-completed-workouts")
	router.HandleFunc("", handler.HandleAddProgram).Methods("POST", "OPTIONS").Name("add-program")
	router.HandleFunc("", handler.HandleListPrograms).Methods("GET").Name("list-programs")
	router.HandleFunc("/{id}", handler.HandleGetProgram).Methods("GET").Name("get-program")
	router.HandleFunc("/{id}", handler.HandleUpdateProgram).Methods("PUT", "OPTIONS").Name("update-program")
	router.HandleFunc("/{id}", handler.HandleDeleteProgram).Methods("DELETE", "OPTIONS").Name("delete-program")
	router.HandleFunc("/{id}/completed", handler.HandleSetCompleted).Methods("PUT", "OPTIONS").Name("set-program-completed")
	router.HandleFunc("/{id}/days/{day}/complete", handler.HandleCompleteDay).Methods("POST", "OPTIONS").Name("complete-program-day")
}

func (handler *Handler) HandleAddProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addProgram")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Tracef("add program, unmarshal json: %s", err)
		http.Error(w, "add program failed", http.StatusBadRequest)
		return
	}

	program.Normalize()
	if err := program.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	program.ID = ""
	program.OwnerID = ownerID
	program.Completed = false
	program.CreatedAt = time.Now().UTC()

	added, err := handler.repo.AddProgram(ctx, program)
	if err != nil {
		log.Errorf("failed to add program [%s] for %s: %s", program.Name, ownerID, err)
		http.Error(w, "error, failed to add program", http.StatusInternalServerError)
		return
	}

	log.Debugf("program %s added for %s", added.ID, ownerID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listPrograms")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	programs, err := handler.repo.ListPrograms(ctx, ownerID)
	if err != nil {
		log.Errorf("failed to list programs for %s: %s", ownerID, err)
		http.Error(w, "error, failed to list programs", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListProgramsResponse{
		Programs: programs,
		Total:    len(programs),
	}, http.StatusOK)
}

func (handler *Handler) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.getProgram")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := programIDFromVars(r)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}

	program, err := handler.repo.GetProgram(ctx, id, ownerID)
	if err != nil {
		writeRepoError(w, "get program", id, err)
		return
	}

	pkg.WriteJSON(w, program, http.StatusOK)
}

func (handler *Handler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.updateProgram")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := programIDFromVars(r)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Tracef("update program, unmarshal json: %s", err)
		http.Error(w, "update program failed", http.StatusBadRequest)
		return
	}

	program.Normalize()
	if err := program.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	program.ID = id
	program.OwnerID = ownerID

	if err := handler.repo.UpdateProgram(ctx, &program); err != nil {
		writeRepoError(w, "update program", id, err)
		return
	}

	pkg.WriteJSON(w, UpdateProgramResponse{UpdatedID: id}, http.StatusOK)
}

func (handler *Handler) HandleSetCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.setCompleted")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := programIDFromVars(r)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SetCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "set completed failed", http.StatusBadRequest)
		return
	}

	if err := handler.repo.SetProgramCompleted(ctx, id, ownerID, req.Completed); err != nil {
		writeRepoError(w, "set program completed", id, err)
		return
	}

	pkg.WriteJSON(w, UpdateProgramResponse{UpdatedID: id}, http.StatusOK)
}

func (handler *Handler) HandleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteProgram")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := programIDFromVars(r)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}

	if err := handler.repo.DeleteProgram(ctx, id, ownerID); err != nil {
		writeRepoError(w, "delete program", id, err)
		return
	}

	log.Debugf("program %s deleted by %s", id, ownerID)
	pkg.WriteJSON(w, DeleteProgramResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleAddCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addCompleted")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout CompletedWorkout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("add completed workout, unmarshal json: %s", err)
		http.Error(w, "add completed workout failed", http.StatusBadRequest)
		return
	}

	if err := workout.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if workout.ProgramID != "" {
		if _, err := uuid.Parse(workout.ProgramID); err != nil {
			http.Error(w, "invalid program id", http.StatusBadRequest)
			return
		}
	}

	workout.ID = ""
	workout.OwnerID = ownerID
	if workout.CompletedAt.IsZero() {
		workout.CompletedAt = time.Now().UTC()
	}

	handler.addCompleted(ctx, w, workout)
}

// HandleCompleteDay logs all exercises of a program day as a completed workout.
func (handler *Handler) HandleCompleteDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.completeDay")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, ok := programIDFromVars(r)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}

	dayNum, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil {
		http.Error(w, "error, day NaN", http.StatusBadRequest)
		return
	}

	program, err := handler.repo.GetProgram(ctx, id, ownerID)
	if err != nil {
		writeRepoError(w, "complete day, get program", id, err)
		return
	}

	day, found := program.DayByNumber(dayNum)
	if !found {
		http.Error(w, "day not found", http.StatusNotFound)
		return
	}

	handler.addCompleted(ctx, w, NewCompletedWorkoutFromDay(program, day, time.Now().UTC()))
}

func (handler *Handler) addCompleted(ctx context.Context, w http.ResponseWriter, workout CompletedWorkout) {
	added, err := handler.repo.AddCompletedWorkout(ctx, workout)
	if err != nil {
		log.Errorf("failed to add completed workout for %s: %s", workout.OwnerID, err)
		http.Error(w, "error, failed to add completed workout", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterCompletedWorkouts.Inc()
	log.Debugf("completed workout %s added for %s", added.ID, added.OwnerID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleListCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listCompleted")
	defer span.End()

	ownerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	completed, err := handler.repo.ListCompletedWorkouts(ctx, ownerID)
	if err != nil {
		log.Errorf("failed to list completed workouts for %s: %s", ownerID, err)
		http.Error(w, "error, failed to list completed workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListCompletedResponse{
		CompletedWorkouts: completed,
		Total:             len(completed),
	}, http.StatusOK)
}

func programIDFromVars(r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeRepoError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, ErrProgramNotFound) {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	log.Errorf("failed to %s %s: %s", op, id, err)
	http.Error(w, "error, failed to "+op, http.StatusInternalServerError)
}
