package generator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid generation request")

const (
	GoalMuscleGain = "muscle-gain"
	GoalWeightLoss = "weight-loss"
	GoalStrength   = "strength"
	GoalEndurance  = "endurance"
)

var (
	goals       = []string{GoalMuscleGain, GoalWeightLoss, GoalStrength, GoalEndurance}
	experiences = []string{"beginner", "intermediate", "advanced"}
)

const maxDaysPerWeek = 7

type ProgramRequest struct {
	Goal        string `json:"goal"`
	Experience  string `json:"experience"`
	DaysPerWeek int    `json:"daysPerWeek"`
}

func (r ProgramRequest) Validate() error {
	if !slices.Contains(goals, r.Goal) {
		return fmt.Errorf("%w: unknown goal [%s]", ErrInvalidRequest, r.Goal)
	}
	if !slices.Contains(experiences, r.Experience) {
		return fmt.Errorf("%w: unknown experience [%s]", ErrInvalidRequest, r.Experience)
	}
	if r.DaysPerWeek < 1 || r.DaysPerWeek > maxDaysPerWeek {
		return fmt.Errorf("%w: days per week must be 1-%d", ErrInvalidRequest, maxDaysPerWeek)
	}
	return nil
}

// ProgramName turns a goal into the name of a saved program, e.g.
// "muscle-gain" becomes "Muscle Gain Program".
func ProgramName(goal string) string {
	words := strings.Split(goal, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Program"
}

func programPrompt(req ProgramRequest) string {
	return fmt.Sprintf(`Generate a %[1]d-day workout program for %[2]s level, goal: %[3]s.
Return ONLY a valid JSON array of workout days, where each day has:
{
  "day": number (1-%[1]d),
  "exercises": [
    {
      "name": "Exercise Name",
      "sets": number (%[4]d-%[5]d),
      "reps": number (%[6]d-%[7]d),
      "description": "Brief instructions"
    }
  ]
}

Include compound exercises like squats, deadlifts, bench press for muscle gain and strength.
For weight loss, include both compound movements and higher rep ranges.
For endurance, focus on bodyweight exercises and higher rep ranges.

Organize exercises logically by muscle groups for each day.
Ensure proper rest between muscle groups across days.

Respond ONLY with the JSON array, no additional text or formatting.`,
		req.DaysPerWeek, req.Experience, req.Goal,
		minSets, maxSets, minReps, maxReps,
	)
}

func mealPrompt(ingredients string) string {
	return fmt.Sprintf(`Suggest a healthy meal that can be cooked with these ingredients: %s.
Return ONLY a valid JSON object with the following fields:
{
  "name": "Meal name",
  "ingredients": ["ingredient with quantity", "..."],
  "nutritionalInfo": "Calories, protein, carbohydrates and fat per serving",
  "cookingInstructions": "Step by step cooking instructions",
  "benefits": "Health and fitness benefits of the meal"
}

Prefer meals that support an active lifestyle and muscle recovery.

Respond ONLY with the JSON object, no additional text or formatting.`,
		ingredients,
	)
}
