package config

import (
	"os"
	"path/filepath"

	"companyclean/internal"
	"companyclean/internal/errors"

	"github.com/joho/godotenv"
)

// DotEnvName is the file FindDotEnv looks for
const DotEnvName = ".env"

// Config is built once at start-up and handed to the entry point
type Config struct {
	Log        LogConfig
	EnvFile    string // .env that was loaded, empty when none was found
	ProjectDir string // directory holding EnvFile, or the working directory
}

// LogConfig holds logging settings
type LogConfig struct {
	Level internal.LogLevel
	Name  string
}

// Load reads configuration from environment variables and validates it.
// envFile is recorded as-is; it should already have been applied with LoadDotEnv.
func Load(envFile string) (*Config, error) {
	level, err := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load logging configuration")
	}

	projectDir := ""
	if envFile != "" {
		projectDir = filepath.Dir(envFile)
	} else if wd, err := os.Getwd(); err == nil {
		projectDir = wd
	}

	return &Config{
		Log: LogConfig{
			Level: level,
			Name:  getEnvOrDefault("LOG_NAME", "make_dataset"),
		},
		EnvFile:    envFile,
		ProjectDir: projectDir,
	}, nil
}

// FindDotEnv walks from startDir up to the filesystem root and returns the
// first .env it finds, or "" when there is none.
func FindDotEnv(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, DotEnvName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadDotEnv applies the key-value pairs of path to the process
// environment. Variables that are already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load "+path)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
