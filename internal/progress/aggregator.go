package progress

import (
	"math"
	"strings"

	"github.com/fitmix/backend/internal/workouts"
)

const (
	pointsPerExercise = 5
	maxExerciseScore  = 50
	maxWeightScore    = 50
)

// MuscleGroups holds the fixed muscle group keys, in display order.
var MuscleGroups = []string{
	"chest",
	"biceps",
	"triceps",
	"shoulders",
	"back",
	"abs",
	"quads",
	"calves",
}

var displayNames = map[string]string{
	"chest":     "Chest",
	"biceps":    "Biceps",
	"triceps":   "Triceps",
	"shoulders": "Shoulders",
	"back":      "Back",
	"abs":       "Abs",
	"quads":     "Quads",
	"calves":    "Calves",
}

// Level is the colour tier of a progress percentage.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelLow       Level = "low"
	LevelMinimal   Level = "minimal"
)

// MuscleProgress is the progress of a single muscle group.
type MuscleProgress struct {
	Muscle        string  `json:"muscle"`
	ExerciseCount int     `json:"exerciseCount"`
	AverageWeight float64 `json:"averageWeight"`
	Progress      int     `json:"progress"`
	Level         Level   `json:"level"`
}

// Summary holds the progress of every known muscle group.
type Summary struct {
	TotalWorkouts  int                        `json:"totalWorkouts"`
	MuscleProgress map[string]*MuscleProgress `json:"muscleProgress"`
}

// Aggregate folds completed workouts into per muscle group progress.
// Exercises labeled with an unknown muscle group are skipped.
func Aggregate(completed []workouts.CompletedWorkout) *Summary {
	summary := &Summary{
		TotalWorkouts:  len(completed),
		MuscleProgress: make(map[string]*MuscleProgress, len(MuscleGroups)),
	}
	for _, mg := range MuscleGroups {
		summary.MuscleProgress[mg] = &MuscleProgress{
			Muscle: displayNames[mg],
			Level:  LevelMinimal,
		}
	}

	for _, cw := range completed {
		for _, ex := range cw.Exercises {
			mp, ok := summary.MuscleProgress[strings.ToLower(ex.MuscleGroup)]
			if !ok {
				continue
			}

			// missing, negative and NaN weights count as 0
			var weight float64
			if ex.Weight != nil && *ex.Weight > 0 {
				weight = *ex.Weight
			}

			mp.ExerciseCount++
			n := float64(mp.ExerciseCount)
			mp.AverageWeight = (mp.AverageWeight*(n-1) + weight) / n
		}
	}

	for _, mp := range summary.MuscleProgress {
		mp.Progress = Score(mp.ExerciseCount, mp.AverageWeight)
		mp.Level = LevelFor(mp.Progress)
	}

	return summary
}

// Score returns the progress percentage for the given exercise count and
// average weight. Each of the two contributes between 0 and 50 points.
func Score(exerciseCount int, averageWeight float64) int {
	exerciseScore := math.Min(math.Max(float64(exerciseCount*pointsPerExercise), 0), maxExerciseScore)
	weightScore := math.Min(math.Max(averageWeight/2, 0), maxWeightScore)
	return int(math.Round(exerciseScore + weightScore))
}

// LevelFor maps a progress percentage to its tier.
func LevelFor(progress int) Level {
	switch {
	case progress >= 80:
		return LevelExcellent
	case progress >= 60:
		return LevelGood
	case progress >= 40:
		return LevelFair
	case progress >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}
