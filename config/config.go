package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
	log "github.com/sirupsen/logrus"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
	Github GithubConfig `mapstructure:"GITHUB"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJSON"`
}

type GithubConfig struct {
	Token                 string `mapstructure:"Token"` // optional, unauthenticated requests are limited to 60 per hour
	RequestTimeoutSeconds int    `mapstructure:"RequestTimeoutSeconds"`
	DefaultLanguagesLimit int    `mapstructure:"DefaultLanguagesLimit"`
}

// Load reads config/config.toml (next to the binary, then in the working directory)
// over the default values. A missing file is not an error, defaults are used
func Load() (*Config, error) {
	configFilePath, err := findConfigFile()
	if err != nil {
		return nil, err
	}

	if configFilePath == "" {
		log.Warning("no config file found, will use default configuration")
	}

	return LoadFromFile(configFilePath)
}

// LoadFromFile loads the given file over the default values, an empty path only applies defaults
func LoadFromFile(configFilePath string) (*Config, error) {
	cfg := GetDefault()

	if configFilePath != "" {
		if _, err := snakelet.InitAndLoad(cfg, configFilePath); err != nil {
			return nil, err
		}
	}

	// token can also be provided using environment, as for most github tools
	if cfg.Github.Token == "" {
		cfg.Github.Token = os.Getenv("GITHUB_TOKEN")
	}

	return cfg, nil
}

// findConfigFile returns an empty path when no config file exists
func findConfigFile() (string, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(dir, "config", "config.toml"),
		filepath.Join("config", "config.toml"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}

	return "", nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Github: GithubConfig{
			Token:                 "",
			RequestTimeoutSeconds: 10,
			DefaultLanguagesLimit: 5,
		},
	}
}
