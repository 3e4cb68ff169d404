package workouts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrInvalidProgram  = errors.New("invalid program")
	ErrInvalidWorkout  = errors.New("invalid completed workout")
)

type ProgramType string

const (
	ProgramTypeCustom ProgramType = "custom"
	ProgramTypeAI     ProgramType = "ai"
)

type ProgramExercise struct {
	Name        string   `json:"name"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	Description string   `json:"description"`
	MuscleGroup string   `json:"muscleGroup,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
}

type Day struct {
	Day       int               `json:"day"`
	Exercises []ProgramExercise `json:"exercises"`
}

// Program is a document in the workouts collection.
type Program struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"ownerId"`
	Name      string      `json:"name"`
	Type      ProgramType `json:"type"`
	Days      []Day       `json:"days"`
	Completed bool        `json:"completed"`
	CreatedAt time.Time   `json:"createdAt"`
}

// LoggedExercise is a single performed exercise within a completed workout.
// Weight is nil when no weight was used.
type LoggedExercise struct {
	Name        string   `json:"name"`
	MuscleGroup string   `json:"muscleGroup"`
	Weight      *float64 `json:"weight,omitempty"`
	Sets        int      `json:"sets,omitempty"`
	Reps        int      `json:"reps,omitempty"`
}

// CompletedWorkout is a document in the completed_workouts collection.
type CompletedWorkout struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"ownerId"`
	ProgramID   string           `json:"programId,omitempty"`
	Day         int              `json:"day,omitempty"`
	Exercises   []LoggedExercise `json:"exercises"`
	CompletedAt time.Time        `json:"completedAt"`
}

// Normalize trims the user input and sets the default program type.
func (p *Program) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Type == "" {
		p.Type = ProgramTypeCustom
	}
	for i := range p.Days {
		for j := range p.Days[i].Exercises {
			ex := &p.Days[i].Exercises[j]
			ex.Name = strings.TrimSpace(ex.Name)
			ex.MuscleGroup = strings.ToLower(strings.TrimSpace(ex.MuscleGroup))
		}
	}
}

func (p *Program) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name empty", ErrInvalidProgram)
	}
	if p.Type != ProgramTypeCustom && p.Type != ProgramTypeAI {
		return fmt.Errorf("%w: unknown type [%s]", ErrInvalidProgram, p.Type)
	}
	if len(p.Days) == 0 {
		return fmt.Errorf("%w: no days", ErrInvalidProgram)
	}
	for _, d := range p.Days {
		if d.Day < 1 {
			return fmt.Errorf("%w: invalid day number %d", ErrInvalidProgram, d.Day)
		}
		if len(d.Exercises) == 0 {
			return fmt.Errorf("%w: day %d has no exercises", ErrInvalidProgram, d.Day)
		}
		for i, ex := range d.Exercises {
			if ex.Name == "" {
				return fmt.Errorf("%w: day %d, exercise %d: name empty", ErrInvalidProgram, d.Day, i)
			}
			if ex.Sets < 1 || ex.Reps < 1 {
				return fmt.Errorf("%w: day %d, exercise %d: sets and reps must be positive", ErrInvalidProgram, d.Day, i)
			}
			if ex.Weight != nil && *ex.Weight < 0 {
				return fmt.Errorf("%w: day %d, exercise %d: negative weight", ErrInvalidProgram, d.Day, i)
			}
		}
	}
	return nil
}

// DayByNumber returns the program day with the given number.
func (p *Program) DayByNumber(day int) (Day, bool) {
	for _, d := range p.Days {
		if d.Day == day {
			return d, true
		}
	}
	return Day{}, false
}

func (cw *CompletedWorkout) Validate() error {
	if len(cw.Exercises) == 0 {
		return fmt.Errorf("%w: no exercises", ErrInvalidWorkout)
	}
	for i, ex := range cw.Exercises {
		if ex.Weight != nil && *ex.Weight < 0 {
			return fmt.Errorf("%w: exercise %d: negative weight", ErrInvalidWorkout, i)
		}
		if ex.Sets < 0 || ex.Reps < 0 {
			return fmt.Errorf("%w: exercise %d: negative sets or reps", ErrInvalidWorkout, i)
		}
	}
	return nil
}

// NewCompletedWorkoutFromDay logs all the exercises of a program day as performed.
func NewCompletedWorkoutFromDay(program *Program, day Day, completedAt time.Time) CompletedWorkout {
	logged := make([]LoggedExercise, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		logged = append(logged, LoggedExercise{
			Name:        ex.Name,
			MuscleGroup: ex.MuscleGroup,
			Weight:      ex.Weight,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
		})
	}
	return CompletedWorkout{
		OwnerID:     program.OwnerID,
		ProgramID:   program.ID,
		Day:         day.Day,
		Exercises:   logged,
		CompletedAt: completedAt,
	}
}
