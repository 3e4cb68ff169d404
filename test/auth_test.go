//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitmix/backend/internal/auth"
)

func (s *IntegrationTestSuite) TestAuth_SignUpSignInSignOut() {
	u := s.signUp()
	s.Equal(strings.ToLower(u.email), u.user.Email)

	resp, _ := s.do("POST", "/auth/signup", "", auth.SignUpRequest{
		Email:    u.email,
		Password: u.password,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp, _ = s.do("POST", "/auth/signin", "", auth.SignInRequest{
		Email:    u.email,
		Password: "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do("POST", "/auth/signin", "", auth.SignInRequest{
		Email:    u.email,
		Password: u.password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var session auth.SessionResponse
	s.Require().NoError(json.Unmarshal(body, &session))
	s.NotEqual(u.token, session.Token)
	s.Equal(u.user.ID, session.User.ID)

	resp, _ = s.do("GET", "/workouts", session.Token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.do("GET", "/auth/signout", session.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var signOut auth.SignOutResponse
	s.Require().NoError(json.Unmarshal(body, &signOut))
	s.True(signOut.LoggedOut)

	resp, _ = s.do("GET", "/workouts", session.Token, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// the first session is still valid
	resp, _ = s.do("GET", "/workouts", u.token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAuth_ProtectedRoutesNeedToken() {
	for _, path := range []string{"/workouts", "/progress", "/profile", "/workouts/completed"} {
		resp, _ := s.do("GET", path, "", nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)

		resp, _ = s.do("GET", path, "not-a-token", nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}
}
