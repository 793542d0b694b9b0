//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	t *testing.T,
	method, path, body, token string,
) (int, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

// doAdminSetup creates the administrator record; tolerates the admin
// already being there, so every test can call it
func (s *IntegrationTestSuite) doAdminSetup(ctx context.Context, t *testing.T) {
	t.Helper()

	status, respBytes := s.doRequest(ctx, t, "POST", "/admin/setup", "", "")
	require.Contains(
		t,
		[]int{http.StatusOK, http.StatusBadRequest},
		status,
		"unexpected setup response: %s", respBytes,
	)
}

func (s *IntegrationTestSuite) doLogin(ctx context.Context, t *testing.T) string {
	t.Helper()

	s.doAdminSetup(ctx, t)

	loginReqJson, err := json.Marshal(loginRequest{
		Username: testUsername,
		Password: testPassword,
	})
	require.NoError(t, err)

	status, respBytes := s.doRequest(ctx, t, "POST", "/admin/login", string(loginReqJson), "")
	require.Equal(t, http.StatusOK, status, "login failed: %s", respBytes)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

func (s *IntegrationTestSuite) addPoem(ctx context.Context, t *testing.T, token, title, content string) int {
	t.Helper()

	status, respBytes := s.doRequest(
		ctx, t,
		"POST", "/poems",
		fmt.Sprintf(`{"title":%q,"content":%q}`, title, content),
		token,
	)
	require.Equal(t, http.StatusCreated, status, "add poem failed: %s", respBytes)

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &created))
	require.NotZero(t, created.ID)

	return created.ID
}
