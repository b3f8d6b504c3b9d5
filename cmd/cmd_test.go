package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
)

func TestReadArticleFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"title":"T","content":"C"}`), 0o644))
	a, err := readArticleFile(nil, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, news.Article{Title: "T", Content: "C"}, a)

	txtPath := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("Headline here\n\nFirst paragraph.\nSecond."), 0o644))
	a, err = readArticleFile(nil, txtPath)
	require.NoError(t, err)
	assert.Equal(t, "Headline here", a.Title)
	assert.Equal(t, "First paragraph.\nSecond.", a.Content)

	a, err = readArticleFile(strings.NewReader("Only a title"), "-")
	require.NoError(t, err)
	assert.Equal(t, news.Article{Title: "Only a title"}, a)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRUTHLY_CONFIG", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestQuickCommand_JSON(t *testing.T) {
	out, err := run(t, "quick",
		"--title", "Ministry publishes annual report",
		"--content", "According to official data, the study confirmed steady growth.",
		"--json")
	require.NoError(t, err)

	var v news.AggregateVerdict
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, ensemble.ModeQuick, v.Details.Mode)
	assert.GreaterOrEqual(t, v.Confidence, 50.0)
	assert.LessOrEqual(t, v.Confidence, 90.0)
	require.Len(t, v.Contributing, 1)
}

func TestQuickCommand_RejectsEmptyArticle(t *testing.T) {
	_, err := run(t, "quick", "--title", "", "--content", "  ")
	assert.ErrorIs(t, err, news.ErrEmptyArticle)
}

func TestBatchCommand_Quick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"title":"First story","content":"Officials confirmed the report."},
		{"title":"","content":""},
		{"title":"Third story","content":"SHOCKING secret they don't want you to know!"}
	]`), 0o644))

	out, err := run(t, "batch", path, "--quick", "--json")
	require.NoError(t, err)

	var res batchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 2, res.SuccessfulAnalyses)
	assert.NotEmpty(t, res.Results[1].Error)
}

func TestAnalyzeCommand_ExportsTelemetry(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"SERPER_API_KEY", "HUGGINGFACE_API_KEY", "VALKEY_ADDRESS",
	} {
		t.Setenv(key, "")
	}
	prev := otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		for _, name := range []string{"metrics-out", "trace-out"} {
			require.NoError(t, rootCmd.PersistentFlags().Set(name, ""))
		}
	})

	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.prom")
	tracePath := filepath.Join(dir, "spans.json")

	_, err := run(t, "analyze",
		"--title", "Ministry publishes annual report",
		"--content", "According to official data, the study confirmed steady growth.",
		"--json",
		"--metrics-out", metricsPath,
		"--trace-out", tracePath)
	require.NoError(t, err)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "truthly_verdicts_total")
	assert.Contains(t, string(prom), "truthly_source_outcomes_total")

	spans, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(spans), "ensemble.Orchestrator.Run")
	assert.Contains(t, string(spans), "ensemble.source.Predict")
}
