//go:build integration_test || all_tests

package test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fitmix/backend/internal/auth"
	"github.com/fitmix/backend/internal/profile"
)

var testPNG = append([]byte("\x89PNG\r\n\x1a\n"), []byte("e2e profile image")...)

func (s *IntegrationTestSuite) TestProfile_UpdateAndImage() {
	u := s.signUp()

	resp, body := s.do("PUT", "/profile", u.token, profile.UpdateProfileRequest{DisplayName: "Lifter"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do("GET", "/profile", u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var user auth.User
	s.Require().NoError(json.Unmarshal(body, &user))
	s.Equal("Lifter", user.DisplayName)
	s.Empty(user.PhotoURL)

	resp, body = s.do("POST", "/profile/image", u.token, profile.UploadImageRequest{
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG),
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var upload profile.UploadImageResponse
	s.Require().NoError(json.Unmarshal(body, &upload))
	s.True(strings.HasPrefix(upload.PhotoURL, serverEndpoint+"/media/"), upload.PhotoURL)

	// media is public
	mediaResp, err := s.httpClient.Get(upload.PhotoURL)
	s.Require().NoError(err)
	defer mediaResp.Body.Close()
	s.Require().Equal(http.StatusOK, mediaResp.StatusCode)
	image, err := io.ReadAll(mediaResp.Body)
	s.Require().NoError(err)
	s.True(bytes.Equal(testPNG, image))

	resp, body = s.do("GET", "/profile", u.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &user))
	s.Equal(upload.PhotoURL, user.PhotoURL)

	resp, _ = s.do("POST", "/profile/image", u.token, profile.UploadImageRequest{
		Image: base64.StdEncoding.EncodeToString([]byte("plain text")),
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestProfile_ChangePassword() {
	u := s.signUp()

	resp, _ := s.do("PUT", "/profile/password", u.token, profile.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-123",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do("PUT", "/profile/password", u.token, profile.ChangePasswordRequest{
		CurrentPassword: u.password,
		NewPassword:     "new-password-123",
	})
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do("POST", "/auth/signin", "", auth.SignInRequest{Email: u.email, Password: u.password})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do("POST", "/auth/signin", "", auth.SignInRequest{Email: u.email, Password: "new-password-123"})
	s.Equal(http.StatusOK, resp.StatusCode)
}
