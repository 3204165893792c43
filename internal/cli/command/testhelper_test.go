package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeGateway serves the gateway API under /api/v1 and records every
// request as "METHOD path".
type fakeGateway struct {
	*httptest.Server

	mu         sync.Mutex
	calls      []string
	listStatus int
	nodes      []map[string]any
}

func newFakeGateway(t *testing.T, nodes ...map[string]any) *fakeGateway {
	t.Helper()

	g := &fakeGateway{listStatus: http.StatusOK, nodes: nodes}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/nodes", func(w http.ResponseWriter, r *http.Request) {
		g.record(r)
		g.mu.Lock()
		status, body := g.listStatus, g.nodes
		g.mu.Unlock()
		if status != http.StatusOK {
			http.Error(w, `{"message":"denied"}`, status)
			return
		}
		jsonResponse(w, body)
	})
	mux.HandleFunc("POST /api/v1/nodes/{pk}", func(w http.ResponseWriter, r *http.Request) {
		g.record(r)
		jsonResponse(w, map[string]string{"status": "registered"})
	})
	mux.HandleFunc("POST /api/v1/nodes/{pk}/{action}", func(w http.ResponseWriter, r *http.Request) {
		g.record(r)
		jsonResponse(w, map[string]string{"status": "ok"})
	})

	g.Server = httptest.NewServer(mux)
	t.Cleanup(g.Close)
	return g
}

func (g *fakeGateway) record(r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, r.Method+" "+r.URL.Path)
}

func (g *fakeGateway) setListStatus(status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listStatus = status
}

func (g *fakeGateway) called(call string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		if c == call {
			return true
		}
	}
	return false
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// writeConfig writes a config file pointing at gatewayURL with the given
// extra YAML appended, and returns its path.
func writeConfig(t *testing.T, gatewayURL string, extra string) string {
	t.Helper()

	content := "gateway:\n" +
		"  base_url: " + gatewayURL + "/api/v1\n" +
		"  ip_echo_url: " + gatewayURL + "/echo\n" +
		"  rate_limit: 0\n" +
		"  timeout: 5s\n" +
		extra

	path := filepath.Join(t.TempDir(), "blessfleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testApp returns the app with stdout and stderr captured.
func testApp() (*cli.App, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr
	return app, stdout, stderr
}

// runApp runs the app with a nonexistent .env so the working directory
// cannot leak into the test.
func runApp(t *testing.T, ctx context.Context, app *cli.App, args ...string) error {
	t.Helper()

	full := []string{"blessfleet", "--env-file", filepath.Join(t.TempDir(), "none.env")}
	return app.RunContext(ctx, append(full, args...))
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
