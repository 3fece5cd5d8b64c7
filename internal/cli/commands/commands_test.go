package commands

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/credentials"
)

// fakeAPI serves fixed handlers per path and records the paths requested
type fakeAPI struct {
	*httptest.Server

	mu     sync.Mutex
	seen   []string
	routes map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()
	api := &fakeAPI{routes: routes}
	if _, ok := routes["/login/"]; !ok {
		routes["/login/"] = func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("password") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			jsonResponse(w, http.StatusOK, `{"token":"0123456789abcdef","is_new":true}`)
		}
	}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.seen = append(api.seen, r.Method+" "+r.URL.Path)
		api.mu.Unlock()
		if h, ok := api.routes[r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// execute runs the root command with args and returns everything printed
func execute(t *testing.T, password string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	savedOutput, savedNoColor := color.Output, color.NoColor
	color.Output, color.NoColor = &buf, true
	credentialProvider = credentials.Static{Username: "alice", Password: password}
	t.Cleanup(func() {
		color.Output, color.NoColor = savedOutput, savedNoColor
		credentialProvider = nil
	})

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestListCommand(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/deployment/": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusOK, `[{"mode":"x","deployment_uuid":"abc","deployment_hash":"h1"}]`)
		},
	})

	out, err := execute(t, "secret", "list", "-a", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated successfully")
	assert.Contains(t, out, "Hash: abc")
	assert.Contains(t, out, "Mode: x")
	assert.Contains(t, out, "Created: N/A")
	assert.Contains(t, out, "corrinoctl info -e digests -d h1")
	assert.Equal(t, []string{"POST /login/", "GET /deployment/"}, api.requests())
}

func TestLoginCommandRejected(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{})

	out, err := execute(t, "wrong", "login", "-a", api.URL)
	require.Error(t, err)
	assert.Contains(t, out, "Login Failed")
	assert.Equal(t, []string{"POST /login/"}, api.requests())
}

func TestDeployCommand(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/deployment/": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusCreated, `{"deployment_uuid":"abc"}`)
		},
	})

	file := filepath.Join(t.TempDir(), "deployment.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"recipe_id":"llm_inference_nvidia"}`), 0600))

	out, err := execute(t, "secret", "deploy", "-a", api.URL, "-d", file, "-y")
	require.NoError(t, err)
	assert.Contains(t, out, `"recipe_id": "llm_inference_nvidia"`)
	assert.Contains(t, out, "Deployment submitted (HTTP 201, /deployment/)")
	assert.Equal(t, []string{"POST /login/", "POST /deployment/"}, api.requests())
}

func TestDeployCommandMissingFile(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{})

	out, err := execute(t, "secret", "post", "-a", api.URL, "-d", filepath.Join(t.TempDir(), "missing.json"), "-y")
	require.Error(t, err)
	assert.Contains(t, out, "file not found")
	assert.Empty(t, api.requests())
}

func TestUndeployCommandFailure(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"/undeploy/": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusInternalServerError, `{"detail":"boom"}`)
		},
	})

	out, err := execute(t, "secret", "undeploy", "-a", api.URL, "-d", "3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	require.Error(t, err)
	assert.Contains(t, out, "Undeploy failed: HTTP 500")
	assert.Equal(t, []string{"POST /login/", "POST /undeploy/"}, api.requests())
}

func TestInfoCommandInvalidEndpoint(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{})

	_, err := execute(t, "secret", "info", "-a", api.URL, "-e", "events", "-d", "h1")
	require.Error(t, err)
	assert.Empty(t, api.requests())
}
