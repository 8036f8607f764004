// Package config loads the application settings from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/speech"
	"github.com/abhisek/studymate/internal/store"
)

// Environment variables read by Load. LLM variables are handled by the
// llm package.
const (
	EnvDB        = "STUDYMATE_DB"
	EnvLog       = "STUDYMATE_LOG"
	EnvCatalog   = "STUDYMATE_CATALOG"
	EnvAudioCmd  = "STUDYMATE_AUDIO_CMD"
	EnvQuestions = "STUDYMATE_QUESTIONS"
	EnvDebug     = "STUDYMATE_DEBUG"
)

// DefaultQuestions is the quiz length when STUDYMATE_QUESTIONS is unset.
const DefaultQuestions = 5

// Config holds the non-LLM application settings.
type Config struct {
	DBPath      string `validate:"required"`
	LogPath     string `validate:"required"`
	CatalogPath string `validate:"omitempty,file"`

	// AudioCommand is the external player the WAV stream is piped into.
	AudioCommand string `validate:"required"`

	Questions int `validate:"min=1,max=20"`
	Debug     bool
}

var validate = validator.New()

// Load reads .env files (missing files are ignored), then the environment.
// Variables already set in the environment win over .env values. With no
// files given, ".env" in the working directory is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		CatalogPath:  strings.TrimSpace(os.Getenv(EnvCatalog)),
		AudioCommand: getEnv(EnvAudioCmd, speech.DefaultCommand),
		Questions:    DefaultQuestions,
	}

	var err error
	if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
		return nil, err
	}
	if cfg.LogPath, err = logger.DefaultPath(); err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvQuestions); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvQuestions, err)
		}
		cfg.Questions = n
	}
	if v := os.Getenv(EnvDebug); v != "" {
		cfg.Debug, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDebug, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}
