// Package workspace stages the per-invocation execution material for the test
// runner: credential files and the execution-input artifact. The scratch
// directory is a caller-owned scoped resource, cleared at the start of every
// invocation so no material from a prior user or prior run survives.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"k8sgrader/internal/model"
)

const (
	certFile   = "client.crt"
	keyFile    = "client.key"
	inputFile  = "input.json"
	reportFile = "report.html"
)

// ExtractCredentials pulls the three cluster credential fields out of a user
// record. The fields are co-required: if any one is absent the whole set is
// reported missing, never a partial result.
func ExtractCredentials(user *model.UserRecord) (cert, key, endpoint string, ok bool) {
	if user == nil || user.ClientCertificate == "" || user.ClientKey == "" || user.Endpoint == "" {
		return "", "", "", false
	}
	return user.ClientCertificate, user.ClientKey, user.Endpoint, true
}

// Workspace is one scratch directory used to stage runner inputs.
type Workspace struct {
	dir string
}

// New returns a workspace rooted at dir. Nothing is touched until Clear.
func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

// Clear removes the scratch directory and recreates it empty.
func (w *Workspace) Clear() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to clear workspace: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// WriteCredentials stages the client certificate and key for the runner.
func (w *Workspace) WriteCredentials(cert, key string) error {
	if err := os.WriteFile(filepath.Join(w.dir, certFile), []byte(cert), 0o600); err != nil {
		return fmt.Errorf("failed to write client certificate: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, keyFile), []byte(key), 0o600); err != nil {
		return fmt.Errorf("failed to write client key: %w", err)
	}
	return nil
}

// WriteInput writes the execution-input artifact: the cluster endpoint plus
// the full session state, JSON-encoded at a fixed name the runner knows.
func (w *Workspace) WriteInput(endpoint string, state model.SessionState) error {
	input := model.ExecutionInput{
		Endpoint: endpoint,
		Session:  state,
	}
	data, err := sonic.MarshalIndent(input, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution input: %w", err)
	}
	if err := os.WriteFile(w.InputPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write execution input: %w", err)
	}
	return nil
}

// InputPath is where the runner reads the execution input from.
func (w *Workspace) InputPath() string {
	return filepath.Join(w.dir, inputFile)
}

// CertPath is where the client certificate is staged.
func (w *Workspace) CertPath() string {
	return filepath.Join(w.dir, certFile)
}

// KeyPath is where the client key is staged.
func (w *Workspace) KeyPath() string {
	return filepath.Join(w.dir, keyFile)
}

// ReportPath is where the runner leaves its report.
func (w *Workspace) ReportPath() string {
	return filepath.Join(w.dir, reportFile)
}
