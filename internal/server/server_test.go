package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k8sgrader/internal/content"
	"k8sgrader/internal/grader"
	"k8sgrader/internal/model"
	"k8sgrader/internal/storage"
	"k8sgrader/internal/workspace"
)

type stubRunner struct {
	verdict model.Verdict
}

func (s *stubRunner) Run(ctx context.Context, phase model.GamePhase, game, task string, ws *workspace.Workspace) (model.Verdict, error) {
	if err := os.WriteFile(ws.ReportPath(), []byte("<html>report</html>"), 0o644); err != nil {
		return model.VerdictError, err
	}
	return s.verdict, nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, reportPath string, phase model.GamePhase, timestamp, email, game, task string) (string, error) {
	return "https://reports.example/signed", nil
}

func testServer(t *testing.T, verdict model.Verdict) (*httptest.Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	library := content.NewLibrary(map[string]content.GameDef{
		"orbit1": {Tasks: []content.TaskDef{
			{Name: "task01", Instruction: "Do task01 in player-{{.SessionID}}", Phases: []string{"setup", "check"}},
		}},
	})
	ws := workspace.New(filepath.Join(t.TempDir(), "scratch"))
	g := grader.New(store, library, ws, &stubRunner{verdict: verdict}, stubPublisher{})

	srv := httptest.NewServer(New(g, store).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func seedUser(t *testing.T, store *storage.MemoryStore) {
	t.Helper()
	require.NoError(t, store.PutUserData(context.Background(), &model.UserRecord{
		Email:             "a@x.com",
		ClientCertificate: "CERT",
		ClientKey:         "KEY",
		Endpoint:          "https://10.0.0.1:6443",
	}))
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGameTaskPost(t *testing.T) {
	srv, store := testServer(t, model.VerdictPass)
	seedUser(t, store)

	resp, err := http.Post(srv.URL+"/game-task", "application/json",
		strings.NewReader(`{"email":"a@x.com","game":"orbit1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "PASS", body["verdict"])
	assert.Equal(t, "setup", body["current_phase"])
	assert.Equal(t, "check", body["next_phase"])
	assert.Equal(t, "https://reports.example/signed", body["report_url"])
	assert.Contains(t, body["instruction"], "task01")
}

func TestGameTaskQueryParams(t *testing.T) {
	srv, store := testServer(t, model.VerdictFail)
	seedUser(t, store)

	resp, err := http.Get(srv.URL + "/game-task?email=a@x.com&game=orbit1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "FAIL", body["verdict"])
}

func TestGameTaskValidationErrors(t *testing.T) {
	srv, _ := testServer(t, model.VerdictPass)

	resp, err := http.Post(srv.URL+"/game-task", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and Game parameter is missing", decodeBody(t, resp)["error"])

	resp, err = http.Post(srv.URL+"/game-task", "application/json",
		strings.NewReader(`{"email":"a@x.com","game":"orbit-1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Game parameter must be a single alphanumeric word", decodeBody(t, resp)["error"])
}

func TestGameTaskUnknownUser(t *testing.T) {
	srv, _ := testServer(t, model.VerdictPass)

	resp, err := http.Post(srv.URL+"/game-task", "application/json",
		strings.NewReader(`{"email":"ghost@x.com","game":"orbit1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ghost@x.com not found in the database", decodeBody(t, resp)["error"])
}

func TestGameTaskCompleted(t *testing.T) {
	srv, store := testServer(t, model.VerdictPass)
	seedUser(t, store)

	rec := &model.SessionRecord{ID: "sid", Email: "a@x.com", Game: "orbit1", Task: "task01", Instruction: "done"}
	require.NoError(t, store.SaveGameSession(context.Background(), "a@x.com", "orbit1", "task01", rec))

	resp, err := http.Post(srv.URL+"/game-task", "application/json",
		strings.NewReader(`{"email":"a@x.com","game":"orbit1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "All tasks are completed", decodeBody(t, resp)["message"])
}

func TestGameTaskMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, model.VerdictPass)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/game-task", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, model.VerdictPass)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}
