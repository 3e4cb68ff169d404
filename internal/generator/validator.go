package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidResponse is returned when the generated text does not match the expected schema.
var ErrInvalidResponse = errors.New("invalid generated response")

const (
	minSets = 2
	maxSets = 5
	minReps = 6
	maxReps = 15
)

type GeneratedExercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	Description string `json:"description"`
}

type WorkoutDay struct {
	Day       int                 `json:"day"`
	Exercises []GeneratedExercise `json:"exercises"`
}

type MealSuggestion struct {
	Name                string   `json:"name"`
	Ingredients         []string `json:"ingredients"`
	NutritionalInfo     string   `json:"nutritionalInfo"`
	CookingInstructions string   `json:"cookingInstructions"`
	Benefits            string   `json:"benefits"`
}

var (
	codeFenceRegex = regexp.MustCompile("```json\\s*|\\s*```")
	curlyQuotes    = strings.NewReplacer("\u201c", `"`, "\u201d", `"`)
)

// CleanResponse strips markdown code fences and curly double quotes from the generated text.
func CleanResponse(raw string) string {
	text := strings.TrimSpace(raw)
	text = codeFenceRegex.ReplaceAllString(text, "")
	text = curlyQuotes.Replace(text)
	return strings.TrimSpace(text)
}

// ParseProgram validates the generated workout program. Any mismatch rejects the
// whole response. Numbers must have no fractional part (3 and 3.0 are both
// fine); strings, fractions and nulls are never coerced.
func ParseProgram(raw string, daysPerWeek int) ([]WorkoutDay, error) {
	if daysPerWeek < 1 {
		return nil, fmt.Errorf("%w: days per week must be positive, got %d", ErrInvalidResponse, daysPerWeek)
	}

	decoded, err := decodeJSON(CleanResponse(raw))
	if err != nil {
		return nil, err
	}

	rawDays, ok := decoded.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an array", ErrInvalidResponse)
	}

	days := make([]WorkoutDay, 0, len(rawDays))
	for i, rawDay := range rawDays {
		dayObj, ok := rawDay.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: day %d is not an object", ErrInvalidResponse, i)
		}

		dayNum, ok := intInRange(dayObj["day"], 1, daysPerWeek)
		if !ok {
			return nil, fmt.Errorf("%w: day %d has invalid day number (must be 1-%d): %v", ErrInvalidResponse, i, daysPerWeek, dayObj["day"])
		}

		rawExercises, ok := dayObj["exercises"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: day %d has invalid exercises property", ErrInvalidResponse, i)
		}

		day := WorkoutDay{
			Day:       dayNum,
			Exercises: make([]GeneratedExercise, 0, len(rawExercises)),
		}
		for j, rawEx := range rawExercises {
			ex, err := parseExercise(rawEx)
			if err != nil {
				return nil, fmt.Errorf("%w: exercise %d in day %d: %s", ErrInvalidResponse, j, i, err)
			}
			day.Exercises = append(day.Exercises, ex)
		}

		days = append(days, day)
	}

	return days, nil
}

// ValidateProgram is ParseProgram with soft failure: it returns an empty list
// when the response is rejected.
func ValidateProgram(raw string, daysPerWeek int) []WorkoutDay {
	days, err := ParseProgram(raw, daysPerWeek)
	if err != nil {
		log.Warnf("generated program rejected: %s", err)
		return []WorkoutDay{}
	}
	return days
}

func parseExercise(rawEx any) (GeneratedExercise, error) {
	exObj, ok := rawEx.(map[string]any)
	if !ok {
		return GeneratedExercise{}, errors.New("not an object")
	}

	name, ok := exObj["name"].(string)
	if !ok {
		return GeneratedExercise{}, fmt.Errorf("invalid name: %v", exObj["name"])
	}
	sets, ok := intInRange(exObj["sets"], minSets, maxSets)
	if !ok {
		return GeneratedExercise{}, fmt.Errorf("invalid sets (must be %d-%d): %v", minSets, maxSets, exObj["sets"])
	}
	reps, ok := intInRange(exObj["reps"], minReps, maxReps)
	if !ok {
		return GeneratedExercise{}, fmt.Errorf("invalid reps (must be %d-%d): %v", minReps, maxReps, exObj["reps"])
	}
	description, ok := exObj["description"].(string)
	if !ok {
		return GeneratedExercise{}, fmt.Errorf("invalid description: %v", exObj["description"])
	}

	return GeneratedExercise{
		Name:        name,
		Sets:        sets,
		Reps:        reps,
		Description: description,
	}, nil
}

// ParseMealSuggestion validates a generated meal suggestion with the same strictness.
func ParseMealSuggestion(raw string) (*MealSuggestion, error) {
	decoded, err := decodeJSON(CleanResponse(raw))
	if err != nil {
		return nil, err
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidResponse)
	}

	meal := &MealSuggestion{}
	for field, dst := range map[string]*string{
		"name":                &meal.Name,
		"nutritionalInfo":     &meal.NutritionalInfo,
		"cookingInstructions": &meal.CookingInstructions,
		"benefits":            &meal.Benefits,
	} {
		v, ok := obj[field].(string)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: invalid %s: %v", ErrInvalidResponse, field, obj[field])
		}
		*dst = v
	}

	rawIngredients, ok := obj["ingredients"].([]any)
	if !ok || len(rawIngredients) == 0 {
		return nil, fmt.Errorf("%w: ingredients must be a non-empty array", ErrInvalidResponse)
	}
	meal.Ingredients = make([]string, 0, len(rawIngredients))
	for i, rawIngredient := range rawIngredients {
		ingredient, ok := rawIngredient.(string)
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %d is not a string", ErrInvalidResponse, i)
		}
		meal.Ingredients = append(meal.Ingredients, ingredient)
	}

	return meal, nil
}

func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: parse json: %s", ErrInvalidResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after json value", ErrInvalidResponse)
	}
	return decoded, nil
}

// intInRange accepts JSON numbers with no fractional part within [lo, hi],
// so 3 and 3.0 are both accepted while 3.5 and "3" are not.
func intInRange(v any, lo, hi int) (int, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, false
	}
	return int(f), true
}
