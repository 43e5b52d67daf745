package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/wikihop/internal/article"
	"github.com/nao1215/wikihop/internal/config"
	"github.com/nao1215/wikihop/internal/endpoint"
	"github.com/nao1215/wikihop/internal/fetch"
	"github.com/nao1215/wikihop/internal/links"
	wlog "github.com/nao1215/wikihop/internal/log"
	"github.com/nao1215/wikihop/internal/model"
	"github.com/nao1215/wikihop/internal/report"
	"github.com/spf13/cobra"
)

// addRunFlags registers the flags shared by the root and random commands.
func addRunFlags(cmd *cobra.Command) {
	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: text, markdown or json")
	cmd.Flags().StringP("output-dir", "o", "",
		"Directory the report is written to (default: current directory)")

	// Fetch flags
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Article namespace URL; must end with '/'")
	cmd.Flags().IntP("max-attempts", "a", config.DefaultMaxAttempts,
		"Attempts per article before giving up")
	cmd.Flags().Duration("backoff", config.DefaultBackoffInterval,
		"Pause after a retryable failure; all requests wait it out")
	cmd.Flags().Int("max-in-flight", config.DefaultMaxInFlight,
		"Maximum concurrent HTTP requests")
	cmd.Flags().Int("round-concurrency", config.DefaultRoundConcurrency,
		"Maximum concurrent article fetches per hop")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")

	// Diagnostics
	cmd.Flags().String("debug-log", "",
		"Append debug logs to this file (default path when given without a value)")
	cmd.Flags().Lookup("debug-log").NoOptDefVal = config.DefaultDebugLogPath()
}

// runHops builds the configuration, sets up logging and signal handling,
// and performs one run.
func runHops(cmd *cobra.Command, articleArg string, random bool, hops int) error {
	cfg, err := buildConfig(cmd, articleArg, random, hops)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closeLog, err := setupLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, format, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in that order of precedence.
func buildConfig(cmd *cobra.Command, articleArg string, random bool, hops int) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Article = articleArg
	cfg.Random = random
	cfg.Hops = hops
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	if _, err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Only flags given on the command line override the file.
	flags := cmd.Flags()
	var err error

	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-attempts") {
		if cfg.MaxAttempts, err = flags.GetInt("max-attempts"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("backoff") {
		if cfg.BackoffInterval, err = flags.GetDuration("backoff"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-in-flight") {
		if cfg.MaxInFlight, err = flags.GetInt("max-in-flight"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("round-concurrency") {
		if cfg.RoundConcurrency, err = flags.GetInt("round-concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("debug-log") {
		if cfg.DebugLog, err = flags.GetString("debug-log"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the logger for a run. The returned function closes the
// debug log file, if one was opened.
func setupLogger(stderr io.Writer, cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.DebugLog == "" {
		return wlog.NewLogger(stderr, cfg.Verbose, nil), func() {}, nil
	}

	if dir := filepath.Dir(cfg.DebugLog); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create debug log directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return wlog.NewLogger(stderr, cfg.Verbose, f), func() { _ = f.Close() }, nil
}

// run fetches the origin, computes every layer and writes the report. No
// report file is created unless every layer was computed.
func run(ctx context.Context, cfg *config.Config, format report.Format, stdout io.Writer, logger *slog.Logger) error {
	start := time.Now()

	client, err := fetch.New(
		fetch.WithBaseURL(cfg.BaseURL),
		fetch.WithMaxAttempts(cfg.MaxAttempts),
		fetch.WithBackoffInterval(cfg.BackoffInterval),
		fetch.WithMaxInFlight(cfg.MaxInFlight),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithProxy(cfg.ProxyAddress),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch client: %w", err)
	}
	defer client.Close()

	logger.Debug("fetch client ready",
		"base_url", cfg.BaseURL,
		"max_in_flight", cfg.MaxInFlight,
		"round_concurrency", cfg.RoundConcurrency,
		"effective_concurrency", cfg.EffectiveConcurrency(),
		wlog.Headers(cfg.Headers),
	)

	origin, requested, err := fetchOrigin(ctx, client, cfg, logger)
	if err != nil {
		return err
	}

	opts := []links.Option{
		links.WithRoundConcurrency(cfg.RoundConcurrency),
		links.WithLogger(logger),
	}
	// Special:Random always redirects; it is not a name any article links to.
	if !cfg.Random {
		opts = append(opts, links.WithRequestedOrigin(requested))
	}
	calc := links.FromArticle(client, origin, opts...)
	if err := calc.ComputeLayers(ctx, cfg.Hops-1); err != nil {
		return fmt.Errorf("failed to compute %d-hop neighbors of %s: %w", cfg.Hops, origin.Title(), err)
	}

	graph := model.NewHopGraph(origin.Title(), calc.Layers(), calc.Redirects())
	graph.Lead = origin.Lead()
	graph.DateComputed = start
	graph.Elapsed = time.Since(start)
	stats := client.Stats()
	graph.Requests = stats.Requests
	graph.Retries = stats.Retries

	path, err := writeReport(graph, origin, format, cfg.OutputDir, logger)
	if err != nil {
		return err
	}

	if _, err := report.NewTextWriter(stdout, report.WithLogger(logger)).WriteSummary(graph.Summary()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	logger.Info("finished",
		"article", graph.Title,
		"report", path,
		"neighbors", graph.TotalNeighbors(),
		"peak_in_flight", stats.PeakInFlight,
		"elapsed", graph.Elapsed,
	)
	return nil
}

// fetchOrigin retrieves the starting article. It also returns the endpoint
// that was requested.
func fetchOrigin(ctx context.Context, client *fetch.Client, cfg *config.Config, logger *slog.Logger) (*article.Article, string, error) {
	requested := fetch.RandomEndpoint
	if !cfg.Random {
		requested = endpoint.Normalize(cfg.Article, client.BaseURL())
	}

	logger.Info("fetching origin", "endpoint", requested)
	origin, err := client.Fetch(ctx, requested)
	if err != nil {
		return nil, requested, fmt.Errorf("failed to fetch %s: %w", requested, err)
	}
	if origin.Endpoint() != requested {
		logger.Info("origin redirected", "requested", requested, "served", origin.Endpoint())
	}
	return origin, requested, nil
}

// writeReport renders graph in format and writes it next to the other
// reports. The file is written only after rendering succeeded.
func writeReport(graph *model.HopGraph, origin *article.Article, format report.Format, dir string, logger *slog.Logger) (string, error) {
	var buf bytes.Buffer
	w, err := report.NewWriter(format, &buf, logger)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(graph); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path := filepath.Join(dir, origin.FileName(format.Extension()))
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
