//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestPoems_addReadDelete() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	poemID := s.addPoem(ctx, t, token, "Sessiz Gemi", "artık demir almak günü gelmişse zamandan")

	// the poem is public to read, no token needed
	status, respBytes := s.doRequest(ctx, t, "GET", fmt.Sprintf("/poems/%d", poemID), "", "")
	require.Equal(t, http.StatusOK, status)

	var poemResp struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Views int64  `json:"views"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &poemResp))
	assert.Equal(t, poemID, poemResp.ID)
	assert.Equal(t, "Sessiz Gemi", poemResp.Title)
	assert.Equal(t, int64(1), poemResp.Views)

	// each read bumps the view counter
	status, respBytes = s.doRequest(ctx, t, "GET", fmt.Sprintf("/poems/%d", poemID), "", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(respBytes, &poemResp))
	assert.Equal(t, int64(2), poemResp.Views)

	status, _ = s.doRequest(ctx, t, "DELETE", fmt.Sprintf("/poems/%d", poemID), "", token)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.doRequest(ctx, t, "GET", fmt.Sprintf("/poems/%d", poemID), "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestPoems_deleteCascadesComments() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	poemID := s.addPoem(ctx, t, token, "Otuz Beş Yaş", "yaş otuz beş, yolun yarısı eder")

	status, respBytes := s.doRequest(
		ctx, t,
		"POST", "/comments",
		fmt.Sprintf(`{"poemId":%d,"name":"okur","comment":"harika"}`, poemID),
		"",
	)
	require.Equal(t, http.StatusCreated, status, "add comment failed: %s", respBytes)

	var comment struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &comment))

	status, _ = s.doRequest(ctx, t, "DELETE", fmt.Sprintf("/poems/%d", poemID), "", token)
	require.Equal(t, http.StatusOK, status)

	// the poem took its comments with it
	status, _ = s.doRequest(ctx, t, "DELETE", fmt.Sprintf("/comments/%d", comment.ID), "", token)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestPoems_addValidation() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)

	for name, body := range map[string]string{
		"empty title":   `{"title":"","content":"c"}`,
		"empty content": `{"title":"t","content":""}`,
	} {
		status, _ := s.doRequest(ctx, t, "POST", "/poems", body, token)
		assert.Equal(t, http.StatusBadRequest, status, "case: %s", name)
	}
}
