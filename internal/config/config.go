// Package config assembles the runtime settings of every component from
// defaults, an optional YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/truthly/internal/classifier"
	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/llm"
	"github.com/abhisek/truthly/internal/search"
)

const (
	configPathEnv    = "TRUTHLY_CONFIG"
	logLevelEnv      = "TRUTHLY_LOG_LEVEL"
	sourceTimeoutEnv = "TRUTHLY_SOURCE_TIMEOUT"
	workersEnv       = "TRUTHLY_WORKERS"
	judgesEnv        = "TRUTHLY_JUDGES"

	openAIKeyEnv      = "OPENAI_API_KEY"
	groqKeyEnv        = "GROQ_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	geminiKeyEnv      = "GEMINI_API_KEY"
	serperKeyEnv      = "SERPER_API_KEY"
	huggingFaceKeyEnv = "HUGGINGFACE_API_KEY"
	valkeyAddressEnv  = "VALKEY_ADDRESS"
	valkeyPasswordEnv = "VALKEY_PASSWORD"
)

// Config holds every tunable of an analysis run.
type Config struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Ensemble   EnsembleConfig    `yaml:"ensemble"`
	LLM        llm.Config        `yaml:"llm"`
	Classifier classifier.Config `yaml:"classifier"`
	Search     search.Config     `yaml:"search"`
}

// EnsembleConfig tunes fan-out and consensus.
type EnsembleConfig struct {
	Orchestrator ensemble.OrchestratorConfig `yaml:"orchestrator"`
	Weights      ensemble.Weights            `yaml:"weights"`
	Bounds       ensemble.Bounds             `yaml:"bounds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Ensemble: EnsembleConfig{
			Orchestrator: ensemble.DefaultOrchestratorConfig(),
			Weights:      ensemble.DefaultWeights(),
			Bounds:       ensemble.DefaultBounds(),
		},
		LLM:        llm.DefaultConfig(),
		Classifier: classifier.DefaultConfig(),
		Search:     search.DefaultConfig(),
	}
}

// Load builds the configuration. path overrides TRUTHLY_CONFIG; envFile,
// when present on disk, is loaded into the environment without replacing
// variables that are already set.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("[Config] Could not load env file",
				slog.String("file", envFile),
				slog.String("error", err.Error()))
		}
	}

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.LLM.OpenAI.APIKey, openAIKeyEnv)
	setString(&c.LLM.Groq.APIKey, groqKeyEnv)
	setString(&c.LLM.Anthropic.APIKey, anthropicKeyEnv)
	setString(&c.LLM.Gemini.APIKey, geminiKeyEnv)
	setString(&c.Search.APIKey, serperKeyEnv)
	setString(&c.Classifier.Inference.APIKey, huggingFaceKeyEnv)
	setString(&c.Search.Cache.Address, valkeyAddressEnv)
	setString(&c.Search.Cache.Password, valkeyPasswordEnv)
	setString(&c.LogLevel, logLevelEnv)

	if v := os.Getenv(judgesEnv); v != "" {
		var judges []string
		for _, j := range strings.Split(v, ",") {
			if j = strings.TrimSpace(j); j != "" {
				judges = append(judges, j)
			}
		}
		c.LLM.Judges = judges
	}

	if v := os.Getenv(sourceTimeoutEnv); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", sourceTimeoutEnv, err)
		}
		c.Ensemble.Orchestrator.SourceTimeout = d
	}

	if v := os.Getenv(workersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", workersEnv, err)
		}
		c.Ensemble.Orchestrator.Workers = n
	}
	return nil
}

// parseTimeout accepts a Go duration ("20s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

var validate = validator.New()

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
