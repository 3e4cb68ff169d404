//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"

	"github.com/fitmix/backend/internal/generator"
	"github.com/fitmix/backend/internal/workouts"
)

const generatedProgram = "```json\n" + `[
  {"day": 1, "exercises": [{"name": "Squat", "sets": 3, "reps": 10, "description": "Keep your back straight"}]},
  {"day": 2, "exercises": [{"name": "Push Up", "sets": 3, "reps": 12, "description": "Full range of motion"}]}
]` + "\n```"

func (s *IntegrationTestSuite) TestGenerate_ProgramSaved() {
	u := s.signUp()
	s.textGenerator.push(generatedProgram)

	resp, body := s.do("POST", "/generate/program", u.token, generator.GenerateProgramRequest{
		ProgramRequest: generator.ProgramRequest{
			Goal:        generator.GoalMuscleGain,
			Experience:  "beginner",
			DaysPerWeek: 2,
		},
		Save: true,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var generated generator.GenerateProgramResponse
	s.Require().NoError(json.Unmarshal(body, &generated))
	s.Require().Len(generated.Days, 2)
	s.Equal("Squat", generated.Days[0].Exercises[0].Name)
	s.Require().NotNil(generated.Program)
	s.Equal(workouts.ProgramTypeAI, generated.Program.Type)
	s.Equal("Muscle Gain Program", generated.Program.Name)

	resp, body = s.do("GET", "/workouts/"+generated.Program.ID, u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var saved workouts.Program
	s.Require().NoError(json.Unmarshal(body, &saved))
	s.Len(saved.Days, 2)
}

func (s *IntegrationTestSuite) TestGenerate_RejectedResponse() {
	u := s.signUp()
	// day 3 is out of range for two days per week
	s.textGenerator.push(`[{"day": 3, "exercises": []}]`)

	resp, body := s.do("POST", "/generate/program", u.token, generator.GenerateProgramRequest{
		ProgramRequest: generator.ProgramRequest{
			Goal:        generator.GoalMuscleGain,
			Experience:  "beginner",
			DaysPerWeek: 2,
		},
		Save: true,
	})
	s.Require().Equal(http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	s.JSONEq(`{"days":[]}`, string(body))

	resp, body = s.do("GET", "/workouts", u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list workouts.ListProgramsResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Empty(list.Programs)
}

func (s *IntegrationTestSuite) TestGenerate_InvalidRequest() {
	u := s.signUp()

	resp, _ := s.do("POST", "/generate/program", u.token, generator.GenerateProgramRequest{
		ProgramRequest: generator.ProgramRequest{Goal: "flying", Experience: "beginner", DaysPerWeek: 3},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
