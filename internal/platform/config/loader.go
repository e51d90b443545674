package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"imgproc-server-go/internal/platform/errors"
)

// DefaultConfigPath is searched when no explicit path is given.
const DefaultConfigPath = ".config.yaml"

// Loader reads configuration from a YAML file layered over defaults, with
// environment variable overrides applied last.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader that reads from the default config path.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      DefaultConfigPath,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the effective configuration. A missing config file is not an
// error: defaults plus environment overrides apply.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	path := l.path
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg := DefaultConfig()
	origin := "defaults"

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "config:load", "failed to parse config file", err)
		}
		origin = path
	case os.IsNotExist(err):
		// keep defaults
	default:
		return nil, errors.Wrap(errors.KindConfig, "config:load", "failed to read config file", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   origin,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if maxSize := os.Getenv("MAX_UPLOAD_SIZE"); maxSize != "" {
		if n, err := strconv.ParseInt(maxSize, 10, 64); err == nil && n > 0 {
			cfg.Processing.MaxFileSize = n
		}
	}
}

// Validate rejects configurations the service cannot safely run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.KindConfig, "config:validate", "config is nil")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "config:validate",
			fmt.Sprintf("invalid server port %d", cfg.Server.Port))
	}
	if cfg.Processing.MaxFileSize <= 0 {
		return errors.New(errors.KindConfig, "config:validate", "max_file_size must be positive")
	}
	if cfg.Processing.MaxWidth <= 0 || cfg.Processing.MaxHeight <= 0 {
		return errors.New(errors.KindConfig, "config:validate", "image dimension limits must be positive")
	}
	if cfg.Processing.JPEGQuality < 1 || cfg.Processing.JPEGQuality > 100 {
		return errors.New(errors.KindConfig, "config:validate",
			fmt.Sprintf("jpeg_quality %d outside 1..100", cfg.Processing.JPEGQuality))
	}
	if cfg.Processing.DenoiseWindow%2 == 0 {
		return errors.New(errors.KindConfig, "config:validate", "denoise_window must be odd")
	}
	return nil
}
