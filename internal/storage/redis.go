package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"k8sgrader/internal/model"
)

// Key layout:
//
//	user:{email}                    user record (JSON)
//	session:{email}:{game}:{task}   committed session (JSON)
//	tasks:{email}:{game}            set of finished task names

// RedisStore is the Redis-backed Store implementation.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store connected to the Redis named by REDIS_URL.
func NewRedisStore(ctx context.Context) (*RedisStore, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func userKey(email string) string {
	return "user:" + email
}

func sessionKey(email, game, task string) string {
	return fmt.Sprintf("session:%s:%s:%s", email, game, task)
}

func tasksKey(email, game string) string {
	return fmt.Sprintf("tasks:%s:%s", email, game)
}

// GetUserData returns the user record, or nil when the email is unknown.
func (r *RedisStore) GetUserData(ctx context.Context, email string) (*model.UserRecord, error) {
	data, err := r.client.Get(ctx, userKey(email)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}

	var user model.UserRecord
	if err := sonic.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user data: %w", err)
	}
	return &user, nil
}

// PutUserData stores a user record. Used by enrollment tooling and tests; the
// grading path itself never writes users.
func (r *RedisStore) PutUserData(ctx context.Context, user *model.UserRecord) error {
	data, err := sonic.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user data: %w", err)
	}
	if err := r.client.Set(ctx, userKey(user.Email), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user data: %w", err)
	}
	return nil
}

// GetTasksByEmailAndGame returns the finished task names for (email, game).
func (r *RedisStore) GetTasksByEmailAndGame(ctx context.Context, email, game string) ([]string, error) {
	tasks, err := r.client.SMembers(ctx, tasksKey(email, game)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get finished tasks: %w", err)
	}
	return tasks, nil
}

// GetGameSession returns the committed session for the triple, or nil.
func (r *RedisStore) GetGameSession(ctx context.Context, email, game, task string) (*model.SessionRecord, error) {
	data, err := r.client.Get(ctx, sessionKey(email, game, task)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	var session model.SessionRecord
	if err := sonic.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game session: %w", err)
	}
	return &session, nil
}

// SaveGameSession persists the session and marks the task finished. The two
// writes ride one pipeline so a committed session and its progress marker
// land together.
func (r *RedisStore) SaveGameSession(ctx context.Context, email, game, task string, session *model.SessionRecord) error {
	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(email, game, task), data, 0)
	pipe.SAdd(ctx, tasksKey(email, game), task)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game session: %w", err)
	}
	return nil
}

// Ping tests the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
