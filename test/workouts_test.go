//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fitmix/backend/internal/progress"
	"github.com/fitmix/backend/internal/workouts"
)

func testProgram() workouts.Program {
	weight := 60.0
	return workouts.Program{
		Name: "Push Pull",
		Days: []workouts.Day{
			{
				Day: 1,
				Exercises: []workouts.ProgramExercise{
					{Name: "Bench Press", Sets: 3, Reps: 8, MuscleGroup: "Chest", Weight: &weight},
					{Name: "Curl", Sets: 3, Reps: 12, MuscleGroup: "biceps"},
				},
			},
			{
				Day: 2,
				Exercises: []workouts.ProgramExercise{
					{Name: "Row", Sets: 4, Reps: 10, MuscleGroup: "back"},
				},
			},
		},
	}
}

func (s *IntegrationTestSuite) TestWorkouts_ProgramLifecycleAndProgress() {
	u := s.signUp()

	resp, body := s.do("POST", "/workouts", u.token, testProgram())
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var program workouts.Program
	s.Require().NoError(json.Unmarshal(body, &program))
	s.NotEmpty(program.ID)
	s.Equal(u.user.ID, program.OwnerID)
	s.Equal(workouts.ProgramTypeCustom, program.Type)

	resp, body = s.do("GET", "/workouts", u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list workouts.ListProgramsResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list.Programs, 1)
	s.Equal(program.ID, list.Programs[0].ID)

	// other users can not see the program
	other := s.signUp()
	resp, _ = s.do("GET", "/workouts/"+program.ID, other.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body = s.do("POST", fmt.Sprintf("/workouts/%s/days/1/complete", program.ID), u.token, nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var completed workouts.CompletedWorkout
	s.Require().NoError(json.Unmarshal(body, &completed))
	s.Equal(program.ID, completed.ProgramID)
	s.Equal(1, completed.Day)
	s.Len(completed.Exercises, 2)

	resp, _ = s.do("POST", fmt.Sprintf("/workouts/%s/days/9/complete", program.ID), u.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body = s.do("GET", "/progress", u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var summary progress.Summary
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Equal(1, summary.TotalWorkouts)
	s.Require().Len(summary.MuscleProgress, len(progress.MuscleGroups))
	s.Equal(1, summary.MuscleProgress["chest"].ExerciseCount)
	s.InDelta(60.0, summary.MuscleProgress["chest"].AverageWeight, 0.001)
	s.Equal(1, summary.MuscleProgress["biceps"].ExerciseCount)
	s.Equal(0, summary.MuscleProgress["back"].ExerciseCount)

	resp, body = s.do("GET", "/progress", other.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var otherSummary progress.Summary
	s.Require().NoError(json.Unmarshal(body, &otherSummary))
	s.Equal(0, otherSummary.TotalWorkouts)

	resp, _ = s.do("DELETE", "/workouts/"+program.ID, u.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = s.do("GET", "/workouts/"+program.ID, u.token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkouts_InvalidProgram() {
	u := s.signUp()

	resp, _ := s.do("POST", "/workouts", u.token, workouts.Program{Name: "No days"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
