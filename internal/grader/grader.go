// Package grader sequences one grading request: resolve the user's current
// task, stage their cluster credentials, resolve or create the attempt
// session, run the validation suite, publish the report, and commit progress
// only on a pass.
package grader

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"k8sgrader/internal/content"
	"k8sgrader/internal/model"
	"k8sgrader/internal/report"
	"k8sgrader/internal/runner"
	"k8sgrader/internal/session"
	"k8sgrader/internal/storage"
	"k8sgrader/internal/workspace"
)

var gameWord = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Request is one grading call.
type Request struct {
	Email string `json:"email"`
	Game  string `json:"game"`
}

// Result is the successful outcome of one grading call. Completed is set
// when the user has nothing left to do in the game; all other fields are
// populated only for a graded attempt.
type Result struct {
	Completed    bool            `json:"-"`
	Message      string          `json:"message,omitempty"`
	CurrentPhase model.GamePhase `json:"current_phase,omitempty"`
	NextPhase    model.GamePhase `json:"next_phase,omitempty"`
	Verdict      model.Verdict   `json:"verdict,omitempty"`
	Instruction  string          `json:"instruction,omitempty"`
	ReportURL    string          `json:"report_url,omitempty"`
}

// Grader wires the collaborators for the grading flow.
type Grader struct {
	store     storage.Store
	library   *content.Library
	sessions  *session.Manager
	ws        *workspace.Workspace
	runner    runner.Runner
	publisher report.Publisher
	now       func() time.Time
}

// New creates a grader over the given collaborators.
func New(store storage.Store, library *content.Library, ws *workspace.Workspace, run runner.Runner, publisher report.Publisher) *Grader {
	return &Grader{
		store:     store,
		library:   library,
		sessions:  session.NewManager(store, library),
		ws:        ws,
		runner:    run,
		publisher: publisher,
		now:       time.Now,
	}
}

// Handle runs one request end to end. It returns either a Result or a
// *Fault; every failure path is typed and carries the exact user-facing
// message.
func (g *Grader) Handle(ctx context.Context, req Request) (*Result, error) {
	if req.Email == "" || req.Game == "" {
		return nil, validationFault("Email and Game parameter is missing")
	}
	if !gameWord.MatchString(req.Game) {
		return nil, validationFault("Game parameter must be a single alphanumeric word")
	}

	finished, err := g.store.GetTasksByEmailAndGame(ctx, req.Email, req.Game)
	if err != nil {
		return nil, executionFault("StorageError", err)
	}
	task, ok := g.library.CurrentTask(req.Game, finished)
	if !ok {
		return &Result{Completed: true, Message: "All tasks are completed"}, nil
	}
	log.Info().Str("email", req.Email).Str("game", req.Game).Str("task", task).Msg("grading current task")

	user, err := g.store.GetUserData(ctx, req.Email)
	if err != nil {
		return nil, executionFault("StorageError", err)
	}
	if user == nil {
		return nil, notFoundFault(fmt.Sprintf("%s not found in the database", req.Email))
	}

	cert, key, endpoint, ok := workspace.ExtractCredentials(user)
	if !ok {
		// The misspelling is load-bearing: existing clients match on it.
		return nil, preconditionFault("K8s confdential is missing.")
	}

	// Fresh scratch state before anything else touches disk, regardless of
	// how the rest of the invocation turns out.
	if err := g.ws.Clear(); err != nil {
		return nil, executionFault("StagingError", err)
	}
	if err := g.ws.WriteCredentials(cert, key); err != nil {
		return nil, executionFault("StagingError", err)
	}

	sess, err := g.sessions.Find(ctx, req.Email, req.Game, task)
	if err != nil {
		return nil, executionFault("StorageError", err)
	}
	if sess == nil {
		sess, err = g.sessions.Create(req.Email, req.Game, task)
		if err != nil {
			return nil, preconditionFault("Instruction not found!")
		}
	}

	// Transient connection parameters are overlaid fresh on every request,
	// never trusted from a persisted copy.
	state := model.SessionState{
		SessionRecord: *sess,
		ExecutionContext: model.ExecutionContext{
			ClientCertificate: cert,
			ClientKey:         key,
			Endpoint:          endpoint,
		},
	}
	if err := g.ws.WriteInput(endpoint, state); err != nil {
		return nil, executionFault("StagingError", err)
	}

	verdict, err := g.runner.Run(ctx, model.PhaseSetup, req.Game, task, g.ws)
	if err != nil {
		return nil, executionFault("RunnerError", err)
	}

	// Upload strictly precedes commit: a pass without retrievable evidence
	// must fail the whole request rather than advance progress silently.
	timestamp := g.now().Format("2006-01-02 15:04:05")
	reportURL, err := g.publisher.Publish(ctx, g.ws.ReportPath(), model.PhaseCheck, timestamp, req.Email, req.Game, task)
	if err != nil {
		return nil, executionFault("UploadError", err)
	}

	if verdict == model.VerdictPass {
		if err := g.sessions.Commit(ctx, req.Email, req.Game, task, sess); err != nil {
			return nil, executionFault("StorageError", err)
		}
		log.Info().Str("session_id", sess.ID).Str("task", task).Msg("session committed")
	}

	return &Result{
		CurrentPhase: model.PhaseSetup,
		NextPhase:    g.library.NextPhase(req.Game, task, model.PhaseSetup),
		Verdict:      verdict,
		Instruction:  sess.Instruction,
		ReportURL:    reportURL,
	}, nil
}
