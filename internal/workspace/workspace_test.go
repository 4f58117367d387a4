package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"k8sgrader/internal/model"
)

func TestExtractCredentials(t *testing.T) {
	full := &model.UserRecord{
		Email:             "a@x.com",
		ClientCertificate: "CERT",
		ClientKey:         "KEY",
		Endpoint:          "https://10.0.0.1:6443",
	}

	cert, key, endpoint, ok := ExtractCredentials(full)
	if !ok || cert != "CERT" || key != "KEY" || endpoint != "https://10.0.0.1:6443" {
		t.Fatalf("full record: got (%q, %q, %q, %v)", cert, key, endpoint, ok)
	}

	// Any missing field voids the whole set.
	partials := []*model.UserRecord{
		nil,
		{Email: "a@x.com"},
		{Email: "a@x.com", ClientCertificate: "CERT"},
		{Email: "a@x.com", ClientCertificate: "CERT", ClientKey: "KEY"},
		{Email: "a@x.com", ClientKey: "KEY", Endpoint: "e"},
	}
	for i, user := range partials {
		if _, _, _, ok := ExtractCredentials(user); ok {
			t.Errorf("partial record %d reported complete credentials", i)
		}
	}
}

func TestClearRemovesStaleMaterial(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	ws := New(dir)

	if err := ws.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteCredentials("old-cert", "old-key"); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "leftover.txt")
	if err := os.WriteFile(stale, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ws.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived Clear")
	}
	if _, err := os.Stat(ws.CertPath()); !os.IsNotExist(err) {
		t.Error("stale certificate survived Clear")
	}

	if err := ws.WriteCredentials("new-cert", "new-key"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(ws.CertPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new-cert" {
		t.Errorf("certificate file = %q, want new-cert", data)
	}
}

func TestWriteInput(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "scratch"))
	if err := ws.Clear(); err != nil {
		t.Fatal(err)
	}

	state := model.SessionState{
		SessionRecord: model.SessionRecord{
			ID:          "sid",
			Email:       "a@x.com",
			Game:        "orbit1",
			Task:        "task01",
			Instruction: "do it",
		},
		ExecutionContext: model.ExecutionContext{
			ClientCertificate: "CERT",
			ClientKey:         "KEY",
			Endpoint:          "https://cluster",
		},
	}
	if err := ws.WriteInput("https://cluster", state); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(ws.InputPath())
	if err != nil {
		t.Fatal(err)
	}
	var input model.ExecutionInput
	if err := sonic.Unmarshal(data, &input); err != nil {
		t.Fatalf("input artifact is not valid JSON: %v", err)
	}
	if input.Endpoint != "https://cluster" {
		t.Errorf("endpoint = %q", input.Endpoint)
	}
	if input.Session.Instruction != "do it" || input.Session.ClientKey != "KEY" {
		t.Errorf("session state lost fields: %+v", input.Session)
	}
}
