package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*WebServer, *httptest.Server) {
	t.Helper()
	app := newTestApp(t)
	config := DefaultConfig()
	config.RefreshInterval = 10 * time.Millisecond

	ws := NewWebServer(app, config, "localhost:0")
	ws.clock = fixedClock{referenceNow}

	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)
	return ws, srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func profileNames(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	var names []string
	for _, p := range body["profiles"].([]interface{}) {
		names = append(names, p.(map[string]interface{})["name"].(string))
	}
	return names
}

func TestHandleIndex(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp404, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp404.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp404.StatusCode)
}

func TestHandleCountdown(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/countdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	frame := body["frame"].(map[string]interface{})
	assert.Equal(t, DefaultProfileName, frame["profile"])

	countdown := frame["countdown"].(map[string]interface{})
	assert.Equal(t, "2047-01-17", countdown["retirement_date"])
	assert.Equal(t, float64(44), countdown["age"])
	assert.Equal(t, false, countdown["career_ended"])

	labels := body["labels"].(map[string]interface{})
	retirement := labels["retirement_date"].(map[string]interface{})
	assert.Equal(t, "Retirement Date: 2047-01-17", retirement["text"])
}

func TestProfileLifecycle(t *testing.T) {
	ws, srv := newTestServer(t)

	// Create copies the current settings when none are given
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/profiles", map[string]string{"name": "work"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "work", body["current"])
	assert.Equal(t, []string{"default", "work"}, profileNames(t, body))

	// Duplicate
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/profiles", map[string]string{"name": "work"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "already exists")

	// Edit
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/profiles/work", map[string]interface{}{
		"birthdate":      "1990-05-20",
		"career_start":   "2012-09-01",
		"retirement_age": 67,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["diff"], `+     "retirement_age": 67`)
	settings, _ := ws.app.Get("work")
	assert.Equal(t, sampleSettings(), settings)

	// Select
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/profiles/default/select", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "default", body["current"])

	// Delete current reassigns
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/profiles/default", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "work", body["current"])
	assert.Equal(t, []string{"work"}, profileNames(t, body))

	// Last profile is protected
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/profiles/work", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "at least one profile")

	// Persisted
	reloaded, fellBack := LoadProfiles(ws.app.Path())
	require.False(t, fellBack)
	assert.Equal(t, []string{"work"}, reloaded.Names())
}

func TestProfileErrors(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown profile edit", http.MethodPut, "/api/profiles/nobody",
			map[string]interface{}{"birthdate": "1990-05-20", "career_start": "2012-09-01", "retirement_age": 67},
			http.StatusNotFound},
		{"unknown profile select", http.MethodPost, "/api/profiles/nobody/select", nil, http.StatusNotFound},
		{"retirement age too high", http.MethodPut, "/api/profiles/default",
			map[string]interface{}{"birthdate": "1990-05-20", "career_start": "2012-09-01", "retirement_age": 101},
			http.StatusBadRequest},
		{"bad date", http.MethodPut, "/api/profiles/default",
			map[string]interface{}{"birthdate": "20/05/1990", "career_start": "2012-09-01", "retirement_age": 67},
			http.StatusBadRequest},
		{"missing date", http.MethodPut, "/api/profiles/default",
			map[string]interface{}{"career_start": "2012-09-01", "retirement_age": 67},
			http.StatusBadRequest},
		{"empty name", http.MethodPost, "/api/profiles", map[string]string{"name": " "}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleSaveProfiles_WriteFailure(t *testing.T) {
	store, _ := LoadProfiles(filepath.Join(t.TempDir(), "missing-dir", "profiles.json"))
	ws := NewWebServer(NewApp(store), DefaultConfig(), "localhost:0")
	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/profiles/save", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "failed to save profiles")
}

func TestHandleStream(t *testing.T) {
	_, srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	events := 0
	for scanner.Scan() && events < 2 {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var payload APICountdownResponse
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &payload))
		assert.True(t, payload.Success)
		assert.Equal(t, DefaultProfileName, payload.Frame.Profile)
		events++
	}
	assert.Equal(t, 2, events)
}

func TestHandleExportPDF(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/export-pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "career-countdown-default-20261019.pdf")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestHandleAbout(t *testing.T) {
	_, srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/about", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, appName, body["name"])
	assert.Equal(t, version, body["version"])
}

func TestPDFFilename(t *testing.T) {
	assert.Equal(t, "career-countdown-my_plan__2_-20261019.pdf", pdfFilename("my plan (2)", referenceNow))
}

func TestStartForEmbedded(t *testing.T) {
	ws := NewWebServer(newTestApp(t), DefaultConfig(), "127.0.0.1:0")

	url, cleanup, err := ws.StartForEmbedded()
	require.NoError(t, err)
	defer cleanup()

	resp, err := http.Get(url + "/api/about")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStartForEmbedded_CleanupEndsStreams(t *testing.T) {
	ws := NewWebServer(newTestApp(t), DefaultConfig(), "127.0.0.1:0")
	ws.config.RefreshInterval = 10 * time.Millisecond

	url, cleanup, err := ws.StartForEmbedded()
	require.NoError(t, err)

	resp, err := http.Get(url + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: ") {
			break
		}
	}

	start := time.Now()
	cleanup()
	assert.Less(t, time.Since(start), 2*time.Second, "shutdown waited on the open stream")
}

func TestStart_StopsWithOpenStream(t *testing.T) {
	ws := NewWebServer(newTestApp(t), DefaultConfig(), "127.0.0.1:0")
	ws.config.RefreshInterval = 10 * time.Millisecond

	base, cancel := context.WithCancel(context.Background())
	server := ws.newHTTPServer(base)
	srv := httptest.NewUnstartedServer(server.Handler)
	srv.Config = server
	srv.Start()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	cancel()
	_, err = io.ReadAll(resp.Body)
	assert.NoError(t, err, "stream should end cleanly once the base context is cancelled")
}

func TestMain(m *testing.M) {
	logger = NewLogger(io.Discard, parseLogLevel("error"))
	os.Exit(m.Run())
}
