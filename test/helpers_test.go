//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/fitmix/backend/internal/auth"
)

// scriptedGenerator returns the queued responses in order.
type scriptedGenerator struct {
	mutex     sync.Mutex
	responses []string
	prompts   []string
}

func (g *scriptedGenerator) push(responses ...string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.responses = append(g.responses, responses...)
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.prompts = append(g.prompts, prompt)
	if len(g.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

type testUser struct {
	email    string
	password string
	token    string
	user     *auth.User
}

func (s *IntegrationTestSuite) do(method, path, token string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBody
}

func (s *IntegrationTestSuite) signUp() *testUser {
	u := &testUser{
		email:    gofakeit.Email(),
		password: gofakeit.Password(true, true, true, false, false, 12),
	}

	resp, body := s.do("POST", "/auth/signup", "", auth.SignUpRequest{
		Email:       u.email,
		Password:    u.password,
		DisplayName: gofakeit.Name(),
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var session auth.SessionResponse
	s.Require().NoError(json.Unmarshal(body, &session))
	s.Require().NotEmpty(session.Token)
	u.token = session.Token
	u.user = session.User
	return u
}
