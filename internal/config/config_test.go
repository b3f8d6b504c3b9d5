package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		configPathEnv, logLevelEnv, sourceTimeoutEnv, workersEnv, judgesEnv,
		openAIKeyEnv, groqKeyEnv, anthropicKeyEnv, geminiKeyEnv, serperKeyEnv,
		huggingFaceKeyEnv, valkeyAddressEnv, valkeyPasswordEnv,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 15*time.Second, cfg.Ensemble.Orchestrator.SourceTimeout)
	assert.Equal(t, 1.8, cfg.Ensemble.Weights.Heuristic)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "truthly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
ensemble:
  orchestrator:
    source_timeout: 5s
  weights:
    remote: 2.0
llm:
  judges: [anthropic]
search:
  trusted_domains: [example.org]
`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Ensemble.Orchestrator.SourceTimeout)
	assert.Equal(t, 6, cfg.Ensemble.Orchestrator.Workers)
	assert.Equal(t, 2.0, cfg.Ensemble.Weights.Remote)
	assert.Equal(t, 1.5, cfg.Ensemble.Weights.Local)
	assert.Equal(t, []string{"anthropic"}, cfg.LLM.Judges)
	assert.Equal(t, []string{"example.org"}, cfg.Search.TrustedDomains)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(openAIKeyEnv, "sk-test")
	t.Setenv(serperKeyEnv, "serper-test")
	t.Setenv(huggingFaceKeyEnv, "hf-test")
	t.Setenv(valkeyAddressEnv, "localhost:6379")
	t.Setenv(sourceTimeoutEnv, "20")
	t.Setenv(workersEnv, "3")
	t.Setenv(judgesEnv, "openai, gemini")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "serper-test", cfg.Search.APIKey)
	assert.Equal(t, "hf-test", cfg.Classifier.Inference.APIKey)
	assert.Equal(t, "localhost:6379", cfg.Search.Cache.Address)
	assert.Equal(t, 20*time.Second, cfg.Ensemble.Orchestrator.SourceTimeout)
	assert.Equal(t, 3, cfg.Ensemble.Orchestrator.Workers)
	assert.Equal(t, []string{"openai", "gemini"}, cfg.LLM.Judges)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(groqKeyEnv)
	t.Cleanup(func() { os.Unsetenv(groqKeyEnv) })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GROQ_API_KEY=gsk-from-file\n"), 0o644))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "gsk-from-file", cfg.LLM.Groq.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "zero weight", yaml: "ensemble:\n  weights:\n    local: 0\n"},
		{name: "floor above ceiling", yaml: "ensemble:\n  bounds:\n    floor: 90\n    ceiling: 50\n"},
		{name: "unknown judge", yaml: "llm:\n  judges: [palm]\n"},
		{name: "bad level", yaml: "log_level: loud\n"},
		{name: "bad timeout", env: map[string]string{sourceTimeoutEnv: "soon"}},
		{name: "zero workers", env: map[string]string{workersEnv: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = filepath.Join(t.TempDir(), "c.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}
			_, err := Load(path, "")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}
