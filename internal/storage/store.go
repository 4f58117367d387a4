package storage

import (
	"context"

	"k8sgrader/internal/model"
)

// Store is the persistence collaborator for users, sessions and per-game
// progress. Progress is derived from committed sessions: a task counts as
// finished for (email, game) once a session for it has been saved.
type Store interface {
	// GetUserData returns the user record for email, or nil when unknown.
	GetUserData(ctx context.Context, email string) (*model.UserRecord, error)
	// GetTasksByEmailAndGame returns the tasks the user has completed for the
	// game, in no particular order.
	GetTasksByEmailAndGame(ctx context.Context, email, game string) ([]string, error)
	// GetGameSession returns the committed session for the triple, or nil
	// when none exists. Idempotent, no side effects.
	GetGameSession(ctx context.Context, email, game, task string) (*model.SessionRecord, error)
	// SaveGameSession persists the session and marks its task finished for
	// (email, game). Saving the same triple twice converges on the last
	// write; at-least-once commit semantics are acceptable here.
	SaveGameSession(ctx context.Context, email, game, task string, session *model.SessionRecord) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
