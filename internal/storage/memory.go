package storage

import (
	"context"
	"sync"

	"k8sgrader/internal/model"
)

// MemoryStore is an in-memory Store implementation for development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*model.UserRecord
	sessions map[string]*model.SessionRecord
	tasks    map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*model.UserRecord),
		sessions: make(map[string]*model.SessionRecord),
		tasks:    make(map[string][]string),
	}
}

// PutUserData stores a user record.
func (m *MemoryStore) PutUserData(ctx context.Context, user *model.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
	return nil
}

// GetUserData returns the user record, or nil when the email is unknown.
func (m *MemoryStore) GetUserData(ctx context.Context, email string) (*model.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email], nil
}

// GetTasksByEmailAndGame returns the finished task names for (email, game).
func (m *MemoryStore) GetTasksByEmailAndGame(ctx context.Context, email, game string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.tasks[tasksKey(email, game)]
	out := make([]string, len(tasks))
	copy(out, tasks)
	return out, nil
}

// GetGameSession returns the committed session for the triple, or nil.
func (m *MemoryStore) GetGameSession(ctx context.Context, email, game, task string) (*model.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionKey(email, game, task)]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// SaveGameSession persists the session and marks the task finished.
func (m *MemoryStore) SaveGameSession(ctx context.Context, email, game, task string, session *model.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *session
	m.sessions[sessionKey(email, game, task)] = &copied

	key := tasksKey(email, game)
	for _, t := range m.tasks[key] {
		if t == task {
			return nil
		}
	}
	m.tasks[key] = append(m.tasks[key], task)
	return nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
