package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/truthly/internal/config"
	"github.com/abhisek/truthly/internal/logging"
	"github.com/abhisek/truthly/internal/metrics"
	"github.com/abhisek/truthly/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "truthly",
	Short: "Ensemble news trust analysis",
	Long: "Truthly scores how trustworthy a news article is by combining a keyword heuristic,\n" +
		"local classifiers, web-search corroboration and LLM judges into one weighted verdict.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := logging.Init(cfg.SlogLevel())
		env := &cliEnv{cfg: cfg, logger: logger}
		if err := env.startTracing(cmd); err != nil {
			return err
		}
		cmd.SetContext(withEnv(cmd.Context(), env))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		env, err := envFrom(cmd)
		if err != nil {
			return nil
		}
		return env.export(cmd)
	},
}

// Execute runs the CLI until completion or interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides TRUTHLY_CONFIG env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file with API keys")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides TRUTHLY_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("metrics-out", "", "Write prometheus metrics to this file after the run (- for stderr)")
	rootCmd.PersistentFlags().String("metrics-push", "", "Push metrics to this Pushgateway URL after the run")
	rootCmd.PersistentFlags().String("trace-out", "", "Export otel spans as JSON to this file (- for stderr)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}

type cliEnv struct {
	cfg    config.Config
	logger *slog.Logger

	traceFile     *os.File
	traceShutdown telemetry.Shutdown
}

func (e *cliEnv) startTracing(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("trace-out")
	if path == "" {
		return nil
	}
	w := os.Stderr
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		e.traceFile, w = f, f
	}
	shutdown, err := telemetry.InitStdout(w, version)
	if err != nil {
		e.closeTraceFile()
		return err
	}
	e.traceShutdown = shutdown
	return nil
}

func (e *cliEnv) closeTraceFile() {
	if e.traceFile != nil {
		e.traceFile.Close()
		e.traceFile = nil
	}
}

// export flushes spans and writes or pushes metrics. All steps run even
// when one fails.
func (e *cliEnv) export(cmd *cobra.Command) error {
	var errs []error
	if e.traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.traceShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
		cancel()
		e.traceShutdown = nil
		e.closeTraceFile()
	}
	if path, _ := cmd.Flags().GetString("metrics-out"); path != "" {
		if err := metrics.WriteFile(path, prometheus.DefaultGatherer); err != nil {
			errs = append(errs, err)
		}
	}
	if url, _ := cmd.Flags().GetString("metrics-push"); url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := metrics.Push(ctx, url, prometheus.DefaultGatherer); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if err := errors.Join(errs...); err != nil {
		e.logger.Warn("[CLI] Telemetry export failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

type envKey struct{}

func withEnv(ctx context.Context, rt *cliEnv) context.Context {
	return context.WithValue(ctx, envKey{}, rt)
}

func envFrom(cmd *cobra.Command) (*cliEnv, error) {
	rt, ok := cmd.Context().Value(envKey{}).(*cliEnv)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return rt, nil
}

// loadConfig resolves config with --config (highest priority), then
// TRUTHLY_CONFIG, then defaults. --log-level beats everything.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}
