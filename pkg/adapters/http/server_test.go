package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	heddlehttp "github.com/aretw0/heddle/pkg/adapters/http"
	"github.com/aretw0/heddle/pkg/adapters/memory"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/aretw0/heddle/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...heddlehttp.Option) (*heddlehttp.Server, *httptest.Server) {
	t.Helper()
	reg := ops.Default()
	mgr := session.NewManager(memory.NewStore())
	srv := heddlehttp.NewServer(reg, mgr, opts...)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthAndInfo(t *testing.T) {
	_, ts := newServer(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	var info map[string]any
	assert.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/info", nil, &info))
	assert.Equal(t, "heddle-http", info["app"])
	assert.NotZero(t, info["operators"])
}

func TestOperators(t *testing.T) {
	_, ts := newServer(t)

	var list []map[string]any
	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/operators", nil, &list))
	assert.NotEmpty(t, list)

	var op map[string]any
	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/operators/fliphorz", nil, &op))
	assert.Equal(t, "flip-horizontal", op["name"])
	assert.Equal(t, "pipe", op["topology"])
	assert.NotEmpty(t, op["doc"])

	assert.Equal(t, http.StatusNotFound, do(t, "GET", ts.URL+"/operators/nope", nil, nil))
}

func TestInvokeOperator(t *testing.T) {
	_, ts := newServer(t)

	var out struct {
		Draft *struct {
			Name    string   `json:"name"`
			Pattern []string `json:"pattern"`
		} `json:"draft"`
	}
	status := do(t, "POST", ts.URL+"/operators/shift/invoke", map[string]any{
		"draft":  map[string]any{"name": "dot", "pattern": []string{"x..."}},
		"params": map[string]any{"amount": 1},
	}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, out.Draft)
	assert.Equal(t, []string{".x.."}, out.Draft.Pattern)
	assert.Equal(t, "shift(dot)", out.Draft.Name)

	t.Run("Invalid Params", func(t *testing.T) {
		status := do(t, "POST", ts.URL+"/operators/shift/invoke", map[string]any{
			"draft":  map[string]any{"pattern": []string{"x..."}},
			"params": map[string]any{"amount": 99999},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Not Standalone", func(t *testing.T) {
		status := do(t, "POST", ts.URL+"/operators/interlace/invoke", map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Missing Params", func(t *testing.T) {
		out.Draft = nil
		status := do(t, "POST", ts.URL+"/operators/shift/invoke", map[string]any{
			"draft": map[string]any{"pattern": []string{"x..."}},
		}, &out)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, out.Draft)
	})
}

func TestWorkspaceLifecycle(t *testing.T) {
	srv, ts := newServer(t)

	var created map[string]string
	require.Equal(t, http.StatusCreated, do(t, "POST", ts.URL+"/workspaces", nil, &created))
	id := created["id"]
	require.NotEmpty(t, id)
	base := ts.URL + "/workspaces/" + id

	events, cancel := srv.Streams.Subscribe(id)
	defer cancel()

	var seed, op, cxn map[string]int
	require.Equal(t, http.StatusCreated, do(t, "POST", base+"/nodes", map[string]any{
		"kind":  "draft",
		"draft": map[string]any{"name": "seed", "pattern": []string{"xx..", "xx.."}},
	}, &seed))
	require.Equal(t, http.StatusCreated, do(t, "POST", base+"/nodes", map[string]any{
		"kind":     "operator",
		"operator": "invert",
	}, &op))
	require.Equal(t, http.StatusCreated, do(t, "POST", base+"/connections", map[string]any{
		"from": seed["id"],
		"to":   op["id"],
	}, &cxn))

	for _, want := range []string{"node_added", "node_added", "connected"} {
		select {
		case msg := <-events:
			assert.Contains(t, msg, want)
		case <-time.After(time.Second):
			t.Fatalf("no %s event", want)
		}
	}

	var doc struct {
		ID    string `json:"id"`
		Nodes []struct {
			ID   int    `json:"id"`
			Kind string `json:"kind"`
		} `json:"nodes"`
	}
	require.Equal(t, http.StatusOK, do(t, "GET", base, nil, &doc))
	assert.Equal(t, id, doc.ID)

	generated := -1
	for _, n := range doc.Nodes {
		if n.Kind == "draft" && n.ID != seed["id"] {
			generated = n.ID
		}
	}
	require.NotEqual(t, -1, generated, "operator output not stored")

	var d struct {
		Name    string   `json:"name"`
		Pattern []string `json:"pattern"`
	}
	require.Equal(t, http.StatusOK, do(t, "GET", base+"/drafts/"+itoa(generated), nil, &d))
	assert.Equal(t, "invert(seed)", d.Name)
	assert.Equal(t, []string{"..xx", "..xx"}, d.Pattern)

	resp, err := http.Get(base + "/mermaid")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "graph TD")

	var list map[string][]string
	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/workspaces", nil, &list))
	assert.Contains(t, list["workspaces"], id)

	var removed map[string][]int
	require.Equal(t, http.StatusOK, do(t, "DELETE", base+"/nodes/"+itoa(op["id"]), nil, &removed))
	assert.Contains(t, removed["removed"], generated)

	assert.Equal(t, http.StatusNotFound, do(t, "GET", base+"/drafts/"+itoa(generated), nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, "GET", base+"/drafts/abc", nil, nil))

	assert.Equal(t, http.StatusNoContent, do(t, "DELETE", base, nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, "GET", base, nil, nil))
}

func TestSetParams(t *testing.T) {
	_, ts := newServer(t)

	var created map[string]string
	require.Equal(t, http.StatusCreated, do(t, "POST", ts.URL+"/workspaces", nil, &created))
	base := ts.URL + "/workspaces/" + created["id"]

	var op map[string]int
	require.Equal(t, http.StatusCreated, do(t, "POST", base+"/nodes", map[string]any{
		"kind": "operator", "operator": "twill", "params": map[string]any{"up": 1, "down": 1},
	}, &op))
	assert.Equal(t, http.StatusOK, do(t, "PUT", base+"/nodes/"+itoa(op["id"])+"/params", map[string]any{"up": 2, "down": 2}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, "PUT", base+"/nodes/999/params", map[string]any{}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, "POST", base+"/nodes", map[string]any{"kind": "operator", "operator": "nope"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", base+"/nodes", map[string]any{"kind": "connection"}, nil))
}

func TestPutWorkspace(t *testing.T) {
	_, ts := newServer(t)

	doc := map[string]any{
		"version": 1,
		"id":      "ignored",
		"nodes": []map[string]any{
			{"id": 1, "kind": "draft"},
		},
		"drafts": []map[string]any{
			{"node": 1, "name": "solid", "pattern": []string{"xx", "xx"}},
		},
	}
	var got map[string]any
	require.Equal(t, http.StatusOK, do(t, "PUT", ts.URL+"/workspaces/w1", doc, &got))
	assert.Equal(t, "w1", got["id"])

	var d map[string]any
	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/workspaces/w1/drafts/1", nil, &d))
	assert.Equal(t, "solid", d["name"])

	assert.Equal(t, http.StatusBadRequest, do(t, "PUT", ts.URL+"/workspaces/w1", map[string]any{"version": 99}, nil))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "heddle_test_total"}))
	_, ts := newServer(t, heddlehttp.WithMetrics(reg))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "heddle_test_total")

	_, plain := newServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, "GET", plain.URL+"/metrics", nil, nil))
}

func TestCORS(t *testing.T) {
	_, ts := newServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/operators", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	srv, ts := newServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/workspaces/w1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	// The handler subscribes before writing the ping.
	srv.Streams.Broadcast("w1", `{"type":"deleted"}`)
	for {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	assert.Equal(t, "data: {\"type\":\"deleted\"}\n", line)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
