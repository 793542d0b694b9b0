//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAdminSetup_onlyOnce() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.doAdminSetup(ctx, t)

	// the admin record is in place now, setup can never run again
	status, respBytes := s.doRequest(ctx, t, "POST", "/admin/setup", "", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `{"message":"admin already exists"}`, string(respBytes))
}

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.doAdminSetup(ctx, t)

	cases := map[string]struct {
		loginReq           loginRequest
		expectedStatusCode int
		expectToken        bool
	}{
		"good creds": {
			loginReq: loginRequest{
				Username: testUsername,
				Password: testPassword,
			},
			expectedStatusCode: http.StatusOK,
			expectToken:        true,
		},
		"bad password": {
			loginReq: loginRequest{
				Username: testUsername,
				Password: "bad-password",
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		"bad username": {
			loginReq: loginRequest{
				Username: "bad-username",
				Password: testPassword,
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			loginReqJson, err := json.Marshal(tc.loginReq)
			require.NoError(t, err)

			status, respBytes := s.doRequest(ctx, t, "POST", "/admin/login", string(loginReqJson), "")
			require.Equal(t, tc.expectedStatusCode, status)

			if tc.expectToken {
				var loginResp loginResponse
				require.NoError(t, json.Unmarshal(respBytes, &loginResp))
				assert.NotEmpty(t, loginResp.Token)
			} else {
				// same message for a bad username and a bad password
				assert.Equal(t, `{"message":"invalid credentials"}`, string(respBytes))
			}
		})
	}
}

func (s *IntegrationTestSuite) TestProtectedRoutes_rejectWithoutToken() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, route := range []struct {
		method string
		path   string
	}{
		{"POST", "/poems"},
		{"DELETE", "/poems/1"},
		{"GET", "/comments"},
		{"PUT", "/comments/1/approve"},
		{"DELETE", "/comments/1"},
		{"POST", "/visits/reset"},
	} {
		status, _ := s.doRequest(ctx, t, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s without token", route.method, route.path)

		status, _ = s.doRequest(ctx, t, route.method, route.path, "", "gibberish-token")
		assert.Equal(t, http.StatusForbidden, status, "%s %s with bad token", route.method, route.path)
	}
}
