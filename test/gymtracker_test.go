package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/gymtracker/internal/gymtracker/workouts"
	"github.com/2beens/gymtracker/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) do(ctx context.Context, method, path string, body any) (*http.Response, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBytes
}

func (s *IntegrationTestSuite) TestWorkoutDayFlow() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp, body := s.do(ctx, http.MethodPost, "/api/days/2024-03-04/exercises", map[string]any{
		"name":        "Bench Press",
		"muscleGroup": "Chest",
		"numSets":     3,
		"reps":        8,
		"weight":      80,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var exercise workouts.Exercise
	require.NoError(t, json.Unmarshal(body, &exercise))
	assert.Equal(t, "Bench Press", exercise.Name)
	require.Len(t, exercise.Sets, 3)

	resp, body = s.do(ctx, http.MethodPut, fmt.Sprintf("/api/days/2024-03-04/exercises/%s/sets/0/completed", exercise.ID), map[string]bool{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// the change went through to postgres
	var stored []byte
	require.NoError(t, s.dbPool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = 'workouts';`).Scan(&stored))
	var log workouts.Log
	require.NoError(t, json.Unmarshal(stored, &log))
	require.Contains(t, log, "2024-03-04")
	assert.True(t, log["2024-03-04"].Exercises[0].Sets[0].Completed)

	resp, body = s.do(ctx, http.MethodGet, "/api/days/2024-03-04", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day workouts.WorkoutDay
	require.NoError(t, json.Unmarshal(body, &day))
	assert.Equal(t, "2024-03-04", day.Date)
	require.Len(t, day.Exercises, 1)
}

func (s *IntegrationTestSuite) TestImportRateLimited() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	export := map[string]any{
		"workouts": map[string]any{},
		"settings": workouts.DefaultSettings(),
	}

	// redis backed limiter allows two imports per minute
	statuses := make([]int, 0, 3)
	for range 3 {
		resp, _ := s.do(ctx, http.MethodPost, "/api/import", export)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooEarly}, statuses)
}

func (s *IntegrationTestSuite) TestOfflineShell() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp, body := s.do(ctx, http.MethodGet, "/shell/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status shell.StatusResponse
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, shell.StateActivated, status.State)
	assert.Equal(t, "v1", status.ActiveVersion)

	resp, body = s.do(ctx, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>gym tracker</html>", string(body))

	resp, body = s.do(ctx, http.MethodGet, "/app.js", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "console.log('gym')", string(body))
}
