package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moviescout/config"
	"github.com/s0up4200/moviescout/filter"
	"github.com/s0up4200/moviescout/tmdb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  tmdb.API
	filters *filter.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviescout",
	Short: "Search TMDb for movies, trailers and posters",
	Long: `moviescout searches The Movie Database and enriches every hit with its
YouTube trailer and genres. Results can be filtered with expressions,
sorted by title or rating, and posters downloaded to disk.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels in-flight requests and retry waits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(posterCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create TMDb client
	client, err = tmdb.NewClient(cfg.ClientConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create TMDb client: %w", err)
	}

	compiler := filter.NewCompiler(filter.WithPlaceholder(cfg.TMDb.PlaceholderPosterURL))
	filters, err = filter.NewManager(filter.WithCompiler(compiler))
	if err != nil {
		return fmt.Errorf("failed to create filter manager: %w", err)
	}

	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.TMDb.BaseURL).
		Int("max_attempts", cfg.HTTP.MaxAttempts).
		Dur("base_delay", cfg.HTTP.BaseDelay).
		Int("enrichment_concurrency", cfg.HTTP.EnrichmentConcurrency).
		Msg("TMDb client ready")

	return nil
}

// setupLogger configures the zerolog logger. Color is only used when
// stderr is a terminal.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
