package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/observability"
	"github.com/matzehuels/erdlayout/pkg/pipeline"
)

const diagramJSON = `{
  "nodes": [{"id": "orders"}, {"id": "users"}, {"id": "items"}],
  "edges": [{"from": "items", "to": "orders"}, {"from": "orders", "to": "users"}]
}`

const diagramTOML = `
[[nodes]]
id = "orders"

[[nodes]]
id = "users"

[[edges]]
from = "orders"
to = "users"
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), Config{}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "ok" {
		t.Errorf("body = %s (%v)", body, err)
	}
	if h.Version == "" || h.GoVersion == "" {
		t.Errorf("build info missing from %s", body)
	}
}

func TestLayout_CreateAndFetch(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout?vgap=50", "application/json", diagramJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	l, err := graph.UnmarshalLayout(body)
	if err != nil {
		t.Fatal(err)
	}
	if l.ID == "" || resp.Header.Get("Location") != "/v1/layouts/"+l.ID {
		t.Errorf("ID = %q, Location = %q", l.ID, resp.Header.Get("Location"))
	}
	if l.Stats.Depth != 2 || len(l.Nodes) != 3 {
		t.Errorf("layout = %+v", l.Stats)
	}
	users, _ := l.Node("users")
	if users.Y != 2*(40+50) {
		t.Errorf("users at y = %v, want 180 with vgap 50", users.Y)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/layouts/"+l.ID, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, body = %s", resp.StatusCode, body)
	}
	fetched, err := graph.UnmarshalLayout(body)
	if err != nil || fetched.ID != l.ID {
		t.Errorf("fetched ID = %q (%v), want %q", fetched.ID, err, l.ID)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/layouts/"+l.ID+"/render/dot", "", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "digraph") {
		t.Errorf("render stored: status = %d, body = %.40s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestLayout_TOMLBody(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/layout", "application/toml", diagramTOML)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/layout?input=toml", "text/plain", diagramTOML)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("input=toml status = %d", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/render/svg?style=dark", "application/json", diagramJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(body), "<svg") || resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, body = %.40s", resp.Header.Get("X-Cache"), body)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/render/svg?style=dark", "application/json", diagramJSON)
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second render X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad format", http.MethodPost, "/v1/render/pdf", diagramJSON, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad json", http.MethodPost, "/v1/layout", `{"nodes": [`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"empty body", http.MethodPost, "/v1/layout", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad query", http.MethodPost, "/v1/layout?hgap=wide", diagramJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad style", http.MethodPost, "/v1/render/svg?style=neon", diagramJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative gap", http.MethodPost, "/v1/layout?vgap=-5", diagramJSON, http.StatusBadRequest, "INVALID_CONFIG"},
		{"duplicate node", http.MethodPost, "/v1/layout", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, http.StatusBadRequest, "INVALID_DIAGRAM"},
		{"unknown layout", http.MethodGet, "/v1/layouts/6f1c2a52-3f5e-4a8e-9d0b-2d1c6b7a9e10", "", http.StatusNotFound, "NOT_FOUND"},
		{"malformed id", http.MethodGet, "/v1/layouts/not-a-uuid", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("error body is not JSON: %s", body)
			}
			if e.Code != tt.code || e.Error == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

type httpRecorder struct {
	mu        sync.Mutex
	responses []string
	errors    int
}

func (h *httpRecorder) OnRequest(context.Context, string, string) {}

func (h *httpRecorder) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+path+" "+http.StatusText(status))
}

func (h *httpRecorder) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)
	ts := newTestServer(t)

	do(t, http.MethodGet, ts.URL+"/v1/layouts/6f1c2a52-3f5e-4a8e-9d0b-2d1c6b7a9e10", "", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.responses) != 1 || rec.responses[0] != "GET /v1/layouts/{id} Not Found" {
		t.Errorf("responses = %v", rec.responses)
	}
	if rec.errors != 1 {
		t.Errorf("errors = %d, want 1", rec.errors)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	if c.Addr != DefaultAddr || c.MaxBodyBytes != DefaultMaxBodyBytes || c.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("WithDefaults() = %+v", c)
	}
	c = Config{Addr: ":9000"}.WithDefaults()
	if c.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", c.Addr)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), Config{Addr: "127.0.0.1:0"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
