//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/project"
)

func (s *IntegrationTestSuite) do(client *http.Client, method, path string, body any) (int, []byte) {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) login(client *http.Client, password string) int {
	code, _ := s.do(client, "POST", "/api/admin/login", auth.LoginRequest{
		Username: testUsername,
		Password: password,
	})
	return code
}

func (s *IntegrationTestSuite) TestHealth() {
	code, body := s.do(http.DefaultClient, "GET", "/health", nil)
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"status": "healthy", "database": "connected", "redis": "connected"}`, string(body))
}

func (s *IntegrationTestSuite) TestLoginVerifyLogout() {
	t := s.T()
	client := s.newClient()

	code, body := s.do(client, "GET", "/api/admin/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"detail": "Not authenticated. Please log in."}`, string(body))

	assert.Equal(t, http.StatusUnauthorized, s.login(client, "bad-password"))
	require.Equal(t, http.StatusOK, s.login(client, testPassword))

	code, body = s.do(client, "GET", "/api/admin/verify", nil)
	require.Equal(t, http.StatusOK, code)
	var verifyResp auth.VerifyResponse
	require.NoError(t, json.Unmarshal(body, &verifyResp))
	assert.True(t, verifyResp.Valid)
	assert.Equal(t, testUsername, verifyResp.User.Username)

	var lastLogin *time.Time
	require.NoError(t, s.DB.QueryRow(`SELECT last_login FROM admin_user WHERE username = $1`, testUsername).Scan(&lastLogin))
	assert.NotNil(t, lastLogin)

	// keep the cookie to replay it after logout
	cookies := client.Jar.Cookies(mustURL(serverEndpoint))
	require.Len(t, cookies, 1)

	code, _ = s.do(client, "POST", "/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, code)

	replay := s.newClient()
	replay.Jar.SetCookies(mustURL(serverEndpoint), cookies)
	code, _ = s.do(replay, "GET", "/api/admin/verify", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func (s *IntegrationTestSuite) TestProjectsCRUD() {
	t := s.T()
	client := s.newClient()
	require.Equal(t, http.StatusOK, s.login(client, testPassword))

	x, y, z := 1.0, 2.0, 3.0
	createReq := project.CreateRequest{
		Title:       "Neural Viz",
		Slug:        fmt.Sprintf("neural-viz-%d", time.Now().UnixNano()),
		Description: "3D view of the portfolio",
		TechStack:   []string{"Go", "Three.js"},
		Featured:    true,
		PositionX:   &x,
		PositionY:   &y,
		PositionZ:   &z,
	}

	code, body := s.do(client, "POST", "/api/admin/projects", createReq)
	require.Equal(t, http.StatusCreated, code, string(body))
	var created project.Admin
	require.NoError(t, json.Unmarshal(body, &created))

	code, body = s.do(client, "POST", "/api/admin/projects", createReq)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, string(body), createReq.Slug)

	code, body = s.do(http.DefaultClient, "GET", "/api/projects/"+createReq.Slug, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"tech_stack":["Go","Three.js"]`)

	newTitle := "Neural Viz 2"
	code, _ = s.do(client, "PUT", fmt.Sprintf("/api/admin/projects/%d", created.ID), project.UpdateRequest{Title: &newTitle})
	require.Equal(t, http.StatusOK, code)

	// the public cache is invalidated by the write
	code, body = s.do(http.DefaultClient, "GET", "/api/projects/"+createReq.Slug, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), newTitle)

	code, body = s.do(client, "DELETE", fmt.Sprintf("/api/admin/projects/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), createReq.Slug)

	code, _ = s.do(http.DefaultClient, "GET", "/api/projects/"+createReq.Slug, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
