//go:build e2e

package e2e

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *SharedSuite) performRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.T().Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *SharedSuite) decodeBody(w *httptest.ResponseRecorder, out any) {
	s.T().Helper()
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), out))
}

// createMember registers a member over HTTP and returns its ID.
func (s *SharedSuite) createMember(firstName, lastName, phoneNumber string) string {
	s.T().Helper()

	w := s.performRequest(http.MethodPost, "/api/members", map[string]any{
		"first_name":   firstName,
		"last_name":    lastName,
		"phone_number": phoneNumber,
	}, "")
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	s.decodeBody(w, &resp)
	return resp.ID
}

// loginMember walks the OTP flow and returns an access token.
func (s *SharedSuite) loginMember(phoneNumber string) string {
	s.T().Helper()

	w := s.performRequest(http.MethodPost, "/api/auth/otp/request", map[string]any{
		"phone_number": phoneNumber,
	}, "")
	require.Equal(s.T(), http.StatusAccepted, w.Code, w.Body.String())

	code := s.SMS.LastCode(phoneNumber)
	require.NotEmpty(s.T(), code, "no login code was delivered")

	w = s.performRequest(http.MethodPost, "/api/auth/otp/verify", map[string]any{
		"phone_number": phoneNumber,
		"code":         code,
	}, "")
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	s.decodeBody(w, &resp)
	require.NotEmpty(s.T(), resp.AccessToken)
	require.Equal(s.T(), "Bearer", resp.TokenType)
	return resp.AccessToken
}

// createBook adds a book over HTTP and returns its ID.
func (s *SharedSuite) createBook(title, isbn string, dailyPrice int64) string {
	s.T().Helper()

	w := s.performRequest(http.MethodPost, "/api/books", map[string]any{
		"title":        title,
		"genres":       "fiction",
		"release_date": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		"isbn":         isbn,
		"daily_price":  dailyPrice,
	}, "")
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	s.decodeBody(w, &resp)
	return resp.ID
}
