// Package runner invokes the external validation test suite. The suite is a
// black box: it reads the staged workspace, talks to the user's cluster, and
// leaves a report file behind. Only its verdict matters here.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"

	"k8sgrader/internal/model"
	"k8sgrader/internal/workspace"
)

// Runner executes the validation suite for one phase of one task and blocks
// until it finishes.
type Runner interface {
	Run(ctx context.Context, phase model.GamePhase, game, task string, ws *workspace.Workspace) (model.Verdict, error)
}

// ExecRunner shells out to the configured test-runner command. The command is
// called as `<command> <phase> <game> <task>` with the workspace directory in
// GRADER_WORKSPACE. Exit code 0 is a pass, 1 a fail; anything else is an
// execution error.
type ExecRunner struct {
	Command string
}

// NewExecRunner creates a runner for the given command.
func NewExecRunner(command string) *ExecRunner {
	return &ExecRunner{Command: command}
}

// Run invokes the suite and maps its exit status to a verdict.
func (e *ExecRunner) Run(ctx context.Context, phase model.GamePhase, game, task string, ws *workspace.Workspace) (model.Verdict, error) {
	cmd := exec.CommandContext(ctx, e.Command, string(phase), game, task)
	cmd.Env = append(os.Environ(), "GRADER_WORKSPACE="+ws.Dir())

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	log.Debug().
		Str("phase", string(phase)).
		Str("game", game).
		Str("task", task).
		Str("output", output.String()).
		Msg("test runner finished")

	if err == nil {
		return model.VerdictPass, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == 1 {
			return model.VerdictFail, nil
		}
		return model.VerdictError, fmt.Errorf("test runner exited with code %d", exitErr.ExitCode())
	}
	return model.VerdictError, fmt.Errorf("failed to run test suite: %w", err)
}
