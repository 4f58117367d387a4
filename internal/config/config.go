package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"k8sgrader/internal/model"
)

// Config is the full process configuration, read from the environment.
type Config struct {
	LogConfig       model.LogConfig       `envconfig:""`
	ServerConfig    model.ServerConfig    `envconfig:""`
	WorkspaceConfig model.WorkspaceConfig `envconfig:""`
	RunnerConfig    model.RunnerConfig    `envconfig:""`
	ReportConfig    model.ReportConfig    `envconfig:""`
	ContentConfig   model.ContentConfig   `envconfig:""`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}
