package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rxwatch/catalyst/internal/cache"
	"github.com/rxwatch/catalyst/internal/fetch"
	"github.com/rxwatch/catalyst/internal/logging"
	"github.com/rxwatch/catalyst/internal/model"
	"github.com/rxwatch/catalyst/internal/runner"
	"github.com/rxwatch/catalyst/internal/sources"
	"github.com/rxwatch/catalyst/internal/store"
	"github.com/rxwatch/catalyst/internal/universe"
)

var (
	companiesPath string
	storePath     string
	cutoffDate    string
	onlySources   []string
	runTimeout    time.Duration
	httpTimeout   time.Duration
	userAgent     string
	workers       int
	noCache       bool
	noRobots      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all configured sources and update the event store",
	Long: `Run executes one tracking pass:
- Load the company universe
- Query every enabled source with bounded concurrency
- Normalize dates and match companies for each candidate
- Merge candidates into the event store (dedup, window, sort)

A failing source contributes zero events and never aborts the run.

Example:
  catalyst run
  catalyst run --companies data/nbi.csv --store data/data.json
  catalyst run --only newswire,edgar --workers 2`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&companiesPath, "companies", "", "company universe CSV (overrides config)")
	runCmd.Flags().StringVar(&storePath, "store", "", "event store path (overrides config)")
	runCmd.Flags().StringVar(&cutoffDate, "cutoff", "", "retention cutoff date YYYY-MM-DD (overrides config)")
	runCmd.Flags().StringSliceVar(&onlySources, "only", nil, "run only these sources (comma-separated)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "total timeout for the run")
	runCmd.Flags().DurationVar(&httpTimeout, "http-timeout", 20*time.Second, "timeout for individual requests")
	runCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (overrides config)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "source worker count (overrides config)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Output.Environment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	companies, err := universe.LoadCSV(cfg.Universe.CSVPath)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return fmt.Errorf("no companies loaded from %s", cfg.Universe.CSVPath)
	}
	logger.Info("universe loaded",
		zap.Int("companies", len(companies)), zap.String("path", cfg.Universe.CSVPath))

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	fetcher := fetch.New(cfg, responseCache, logger)
	srcs := sources.All(sources.Deps{
		Fetcher:  fetcher,
		Universe: companies,
		Config:   cfg,
		Logger:   logger,
	})
	if len(srcs) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	st := store.New(cfg.Store.Path)
	r := runner.New(srcs, st, cfg.Store.Cutoff, cfg.Concurrency.SourceWorkers, logger)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	summary, err := r.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(summary, cfg.Store.Path)
	return nil
}

// loadConfig layers defaults, the config file/env via viper, and flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if companiesPath != "" {
		cfg.Universe.CSVPath = companiesPath
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if cutoffDate != "" {
		cfg.Store.Cutoff = cutoffDate
	}
	if len(onlySources) > 0 {
		cfg.Sources.Enabled = onlySources
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if workers > 0 {
		cfg.Concurrency.SourceWorkers = workers
	}
	if httpTimeout > 0 {
		cfg.HTTP.Timeout = httpTimeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.CheckRobots = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

func printSummary(summary *runner.Summary, storePath string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Catalyst Run Summary\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	for _, sc := range summary.Sources {
		if sc.Err != nil {
			fmt.Fprintf(os.Stderr, "  %-12s failed: %v\n", sc.Source, sc.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %-12s %d events\n", sc.Source, sc.Events)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Added:    %d new events\n", summary.Added)
	fmt.Fprintf(os.Stderr, "  Total:    %d events in store\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Store:    %s\n", storePath)
	fmt.Fprintf(os.Stderr, "  Duration: %v\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")
}
