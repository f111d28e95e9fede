package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wicaksana/tanya/config"
	"github.com/wicaksana/tanya/dialogue"
	"github.com/wicaksana/tanya/kb"
	"github.com/wicaksana/tanya/session"
)

const testKB = `<knowledge>
  <settings>
    <autoDetectLanguage>false</autoDetectLanguage>
    <defaultLanguage>id</defaultLanguage>
    <defaultAnswer>Maaf, coba lagi.</defaultAnswer>
  </settings>
  <intents>
    <intent name="greeting"><keyword>halo</keyword></intent>
  </intents>
  <items>
    <item id="greet-1" lang="id" intent="greeting">
      <question>halo</question>
      <answer>Halo! Ada yang bisa saya bantu?</answer>
    </item>
  </items>
</knowledge>`

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           0,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Session:   config.SessionConfig{TTLMinutes: 10, MaxSessions: 64},
		Fallback:  config.FallbackConfig{TimeoutSeconds: 1},
		RateLimit: config.RateLimitConfig{RPS: 0},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *session.Manager) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.xml")
	require.NoError(t, os.WriteFile(path, []byte(testKB), 0o644))
	base, err := kb.Load(path)
	require.NoError(t, err)

	sessions := session.NewManager(cfg.Session.MaxSessions, cfg.SessionTTL())
	engine := dialogue.NewEngine(base, sessions, dialogue.Options{FallbackTimeout: cfg.FallbackTimeout()})

	srv := httptest.NewServer(New(cfg, base, engine, sessions).Handler())
	t.Cleanup(srv.Close)
	return srv, sessions
}

func postQuery(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/query", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestQueryResolves(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp := postQuery(t, srv, `{"utterance": "halo", "session_id": "s1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dialogue.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "Halo! Ada yang bisa saya bantu?", res.Answer)
	assert.Equal(t, dialogue.SourceQA, res.Source)
	assert.Equal(t, "id", res.Language)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestQueryValidation(t *testing.T) {
	srv, sessions := newTestServer(t, testConfig())

	cases := []struct {
		name string
		body string
	}{
		{"missing utterance", `{"session_id": "s1"}`},
		{"blank utterance", `{"utterance": "  ", "session_id": "s1"}`},
		{"missing session id", `{"utterance": "halo"}`},
		{"not json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postQuery(t, srv, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}

	// Rejected requests never create sessions
	assert.Equal(t, 0, sessions.Len())
}

func TestQueryMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/api/query")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSessionEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t, testConfig())

	resp := postQuery(t, srv, `{"utterance": "halo", "session_id": "s1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/api/session/s1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var body struct {
		ID      string         `json:"id"`
		Context *string        `json:"context"`
		History []session.Turn `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "s1", body.ID)
	assert.Nil(t, body.Context)
	require.Len(t, body.History, 1)
	assert.Equal(t, "halo", body.History[0].Utterance)

	// Lookups never create sessions
	before := sessions.Len()
	resp3, err := http.Get(srv.URL + "/api/session/ghost")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
	assert.Equal(t, before, sessions.Len())
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/api/kb/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats kb.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Items)
	assert.Equal(t, 1, stats.Intents)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/query", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	// Unlisted origins get no CORS headers
	req, err = http.NewRequest(http.MethodOptions, srv.URL+"/api/query", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestRecoverMiddleware(t *testing.T) {
	s := New(testConfig(), nil, nil, nil)
	h := s.recoverMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic(fmt.Errorf("boom"))
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
