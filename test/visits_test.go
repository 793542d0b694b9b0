//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestVisits_incrementAndReset() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	require.NoError(t, s.redisDataCleanup(ctx))

	countOf := func(respBytes []byte) int64 {
		var resp struct {
			Count int64 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(respBytes, &resp))
		return resp.Count
	}

	status, respBytes := s.doRequest(ctx, t, "GET", "/visits", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, countOf(respBytes))

	for i := int64(1); i <= 3; i++ {
		status, respBytes = s.doRequest(ctx, t, "POST", "/visits/increment", "", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, i, countOf(respBytes))
	}

	status, respBytes = s.doRequest(ctx, t, "GET", "/visits", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), countOf(respBytes))

	// reset is admin-only
	status, _ = s.doRequest(ctx, t, "POST", "/visits/reset", "", "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, t, "POST", "/visits/reset", "", token)
	require.Equal(t, http.StatusOK, status)

	status, respBytes = s.doRequest(ctx, t, "GET", "/visits", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, countOf(respBytes))
}
