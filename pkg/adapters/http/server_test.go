package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/internal/testutils"
	"github.com/opencourtlab/guideway/pkg/adapters/memory"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/summary"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	srv := NewServer(testutils.IntakeGraph(t), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body createResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.SessionID)
	return body.SessionID
}

func advance(t *testing.T, ts *httptest.Server, id, label string) (*http.Response, stepResponse) {
	t.Helper()
	payload, _ := json.Marshal(advanceRequest{Label: label})
	resp, err := http.Post(ts.URL+"/sessions/"+id+"/advance", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var step stepResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&step))
	}
	return resp, step
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, WithStore(memory.NewStore()))
	id := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/sessions/" + id + "/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	var current domain.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
	assert.Equal(t, "welcome", current.ID)

	r, step := advance(t, ts, id, "Continue")
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "eligibility", step.View.NodeID)
	assert.Nil(t, step.Record)

	r, step = advance(t, ts, id, "Yes")
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "forms", step.View.NodeID)

	r, step = advance(t, ts, id, "Continue")
	assert.Equal(t, http.StatusOK, r.StatusCode)
	require.NotNil(t, step.Record, "terminal transition carries the completion record")
	assert.Contains(t, step.Record.Forms, "FW-001")
}

func TestAdvanceInvalidChoiceIs422(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	_, _ = advance(t, ts, id, "Continue") // move onto the decision node

	payload, _ := json.Marshal(advanceRequest{Label: "Maybe"})
	resp, err := http.Post(ts.URL+"/sessions/"+id+"/advance", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "that choice isn't available right now", body.Error)
}

func TestAdvanceMalformedBodyIs400(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	resp, err := http.Post(ts.URL+"/sessions/"+id+"/advance", "application/json", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackAndReset(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)

	_, _ = advance(t, ts, id, "Continue")
	_, step := advance(t, ts, id, "Yes")
	require.Equal(t, "forms", step.View.NodeID)

	resp, err := http.Post(ts.URL+"/sessions/"+id+"/back", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var backStep stepResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&backStep))
	assert.Equal(t, "eligibility", backStep.View.NodeID)

	resp2, err := http.Post(ts.URL+"/sessions/"+id+"/reset", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	var resetStep stepResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&resetStep))
	assert.Equal(t, "welcome", resetStep.View.NodeID)
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t, WithPhaseRules([]summary.PhaseRule{
		{Phase: "triage", EntryNodes: []string{"eligibility"}},
	}))
	id := createSession(t, ts)
	_, _ = advance(t, ts, id, "Continue")

	resp, err := http.Get(ts.URL + "/sessions/" + id + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	var report summary.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "triage", report.Phase)
	assert.Equal(t, []string{"welcome", "eligibility"}, report.View.Trail)
}

func TestTwoHTTPSessionsAreIndependent(t *testing.T) {
	ts := newTestServer(t)
	left := createSession(t, ts)
	right := createSession(t, ts)

	_, _ = advance(t, ts, left, "Continue")
	_, leftStep := advance(t, ts, left, "Yes")
	assert.Equal(t, "forms", leftStep.View.NodeID)

	resp, err := http.Get(ts.URL + "/sessions/" + right + "/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	var current domain.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
	assert.Equal(t, "welcome", current.ID)
}

func TestMermaidEndpointWithOverlay(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts)
	_, _ = advance(t, ts, id, "Continue")

	resp, err := http.Get(ts.URL + "/graph/mermaid?session=" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "eligibility")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), "OPTIONS", ts.URL+"/sessions", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
