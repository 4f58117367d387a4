// Package session manages the resumable attempt records scoping one
// (email, game, task) triple.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"k8sgrader/internal/content"
	"k8sgrader/internal/model"
	"k8sgrader/internal/storage"
)

// sessionNamespace seeds deterministic session ids. Two concurrent creations
// for the same triple converge on the same id and therefore the same
// instruction, so duplicate creation is harmless.
var sessionNamespace = uuid.MustParse("8f7a1c2e-4b6d-4e1a-9c3f-5d2b8a0e6f41")

// Manager finds, creates and commits game sessions.
type Manager struct {
	store   storage.Store
	library *content.Library
}

// NewManager creates a session manager backed by store and library.
func NewManager(store storage.Store, library *content.Library) *Manager {
	return &Manager{store: store, library: library}
}

// Find returns the committed session for the triple, or nil. Safe to call
// repeatedly; it never mutates anything.
func (m *Manager) Find(ctx context.Context, email, game, task string) (*model.SessionRecord, error) {
	return m.store.GetGameSession(ctx, email, game, task)
}

// Create allocates a session for the triple and generates its instruction
// from the game content. The instruction is fixed from this point on. An
// empty or missing instruction signals a content problem, not a user error.
func (m *Manager) Create(email, game, task string) (*model.SessionRecord, error) {
	session := &model.SessionRecord{
		ID:        uuid.NewSHA1(sessionNamespace, []byte(email+"|"+game+"|"+task)).String(),
		Email:     email,
		Game:      game,
		Task:      task,
		CreatedAt: time.Now().Unix(),
	}

	instruction, err := m.library.Instruction(game, task, session)
	if err != nil {
		return nil, fmt.Errorf("failed to generate instruction: %w", err)
	}
	session.Instruction = instruction
	return session, nil
}

// Commit persists the session as completed. Callers invoke this only after a
// PASS verdict; a failed attempt leaves no durable trace, so the next request
// for the triple recreates the identical session and instruction.
func (m *Manager) Commit(ctx context.Context, email, game, task string, session *model.SessionRecord) error {
	return m.store.SaveGameSession(ctx, email, game, task, session)
}
