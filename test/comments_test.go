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

type commentPayload struct {
	ID       int    `json:"id"`
	PoemID   int    `json:"poemId"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	Approved bool   `json:"approved"`
}

func (s *IntegrationTestSuite) TestComments_moderationFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	poemID := s.addPoem(ctx, t, token, "Lavinia", "sana gitme demeyeceğim")

	poemCommentsPath := fmt.Sprintf("/poems/%d/comments", poemID)

	// a visitor leaves a comment, no auth involved
	status, respBytes := s.doRequest(
		ctx, t,
		"POST", "/comments",
		fmt.Sprintf(`{"poemId":%d,"name":"okur","comment":"çok etkileyici"}`, poemID),
		"",
	)
	require.Equal(t, http.StatusCreated, status, "add comment failed: %s", respBytes)

	var created commentPayload
	require.NoError(t, json.Unmarshal(respBytes, &created))
	require.False(t, created.Approved, "new comments start unapproved")

	// not visible publicly yet
	status, respBytes = s.doRequest(ctx, t, "GET", poemCommentsPath, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(respBytes))

	// but the admin sees it in the full listing
	status, respBytes = s.doRequest(ctx, t, "GET", "/comments", "", token)
	require.Equal(t, http.StatusOK, status)

	var allComments []commentPayload
	require.NoError(t, json.Unmarshal(respBytes, &allComments))
	require.NotEmpty(t, allComments)
	assert.Equal(t, created.ID, allComments[0].ID)

	// approve it
	approvePath := fmt.Sprintf("/comments/%d/approve", created.ID)
	status, respBytes = s.doRequest(ctx, t, "PUT", approvePath, `{"approved":true}`, token)
	require.Equal(t, http.StatusOK, status)

	var approved commentPayload
	require.NoError(t, json.Unmarshal(respBytes, &approved))
	assert.True(t, approved.Approved)

	// now it shows up publicly
	status, respBytes = s.doRequest(ctx, t, "GET", poemCommentsPath, "", "")
	require.Equal(t, http.StatusOK, status)

	var poemComments []commentPayload
	require.NoError(t, json.Unmarshal(respBytes, &poemComments))
	require.Len(t, poemComments, 1)
	assert.Equal(t, created.ID, poemComments[0].ID)

	// toggling approval back off hides it again without deleting it
	status, _ = s.doRequest(ctx, t, "PUT", approvePath, `{"approved":false}`, token)
	require.Equal(t, http.StatusOK, status)

	status, respBytes = s.doRequest(ctx, t, "GET", poemCommentsPath, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(respBytes))

	// delete it for real
	deletePath := fmt.Sprintf("/comments/%d", created.ID)
	status, _ = s.doRequest(ctx, t, "DELETE", deletePath, "", token)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.doRequest(ctx, t, "DELETE", deletePath, "", token)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.doRequest(ctx, t, "PUT", approvePath, `{"approved":true}`, token)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestComments_unknownPoemRejected() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status, respBytes := s.doRequest(
		ctx, t,
		"POST", "/comments",
		`{"poemId":25342523,"name":"okur","comment":"nereye"}`,
		"",
	)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, `{"message":"poem not found"}`, string(respBytes))
}

func (s *IntegrationTestSuite) TestComments_submissionRateLimited() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	poemID := s.addPoem(ctx, t, token, "Han Duvarları", "yağız atlar kişnedi")

	// config allows 10 submissions per minute per IP; clean slate first
	require.NoError(t, s.redisDataCleanup(ctx))

	body := fmt.Sprintf(`{"poemId":%d,"name":"okur","comment":"yorum"}`, poemID)
	for i := 1; i <= 15; i++ {
		status, _ := s.doRequest(ctx, t, "POST", "/comments", body, "")
		if i <= 10 {
			require.Equal(t, http.StatusCreated, status, "iteration: %d", i)
		} else {
			require.Equal(t, http.StatusTooManyRequests, status, "iteration: %d", i)
		}
	}

	require.NoError(t, s.redisDataCleanup(ctx))
}
