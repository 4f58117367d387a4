package model

// SessionRecord is the persisted attempt record for one (email, game, task)
// triple. The instruction is generated once at creation time and never
// rewritten afterwards; it is the contract shown to the user across retries.
type SessionRecord struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Game        string `json:"game"`
	Task        string `json:"task"`
	Instruction string `json:"instruction"`
	CreatedAt   int64  `json:"created_at"`
}

// ExecutionContext carries the per-invocation transient cluster connection
// parameters. It is recomputed from the user record on every request and is
// never persisted alongside the session.
type ExecutionContext struct {
	ClientCertificate string `json:"client_certificate"`
	ClientKey         string `json:"client_key"`
	Endpoint          string `json:"endpoint"`
}

// SessionState is the merged view of a session and its execution context,
// assembled only for the duration of one invocation.
type SessionState struct {
	SessionRecord
	ExecutionContext
}

// ExecutionInput is the artifact handed to the test runner: the cluster
// endpoint plus the full session state. Written fresh on every invocation.
type ExecutionInput struct {
	Endpoint string       `json:"endpoint"`
	Session  SessionState `json:"session"`
}
