package model

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"json"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/k8sgrader.log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}

// WorkspaceConfig locates the scratch area used to stage credential files and
// the execution-input artifact for the test runner.
type WorkspaceConfig struct {
	Dir string `envconfig:"WORKSPACE_DIR" default:"/tmp/k8sgrader"`
}

// RunnerConfig names the external test-runner command. The command is invoked
// with (phase, game, task) arguments and the workspace directory in its
// environment.
type RunnerConfig struct {
	Command string `envconfig:"RUNNER_COMMAND" default:"k8sgrader-tests"`
}

// ReportConfig controls report uploads and signed retrieval links.
type ReportConfig struct {
	Bucket        string `envconfig:"REPORT_BUCKET" required:"true"`
	URLExpiryMins int    `envconfig:"REPORT_URL_EXPIRY_MINUTES" default:"15"`
}

// ContentConfig locates the game definition file.
type ContentConfig struct {
	GamesFile string `envconfig:"GAMES_FILE" default:"games.yaml"`
}
