package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quotes-scraper/config"
	"quotes-scraper/db"
	"quotes-scraper/export"
	"quotes-scraper/fetcher"
	"quotes-scraper/filter"
	"quotes-scraper/scraper"
	"quotes-scraper/sheets"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultOutputPath = "quotes.csv"
	defaultConfigPath = "config.yaml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "quotes-scraper [output.csv]",
		Short:         "Scrape every page of quotes.toscrape.com into a CSV file",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := defaultOutputPath
			if len(args) == 1 {
				outputPath = args[0]
			}

			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			explicit := cmd.Flags().Changed("config")
			cfg, err := loadConfig(configPath, explicit)
			if err != nil {
				logger.Errorw("Invalid configuration", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, outputPath, logger); err != nil {
				logger.Errorw("Scrape failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to configuration file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger.Sugar(), nil
}

// loadConfig reads the config file; a missing default file means defaults
func loadConfig(path string, explicit bool) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(path); err == nil || explicit {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.GetDefaultConfig()
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run fetches every page, filters, then writes the CSV and any configured sinks
func run(ctx context.Context, cfg *config.Config, outputPath string, logger *zap.SugaredLogger) error {
	f, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	pager := scraper.NewPager(cfg.BaseURL, cfg.MaxPages, f, logger)
	quotes, scrapeRun, err := pager.ScrapeRun(ctx)
	if err != nil {
		return err
	}

	qf := filter.NewFilter(cfg)
	if qf.Active() {
		before := len(quotes)
		quotes = qf.ApplyFilters(quotes)
		logger.Infow("Applied filters", "before", before, "after", len(quotes))
	}
	scrapeRun.QuoteCount = len(quotes)

	exporters := export.Multi{export.NewCSVWriter(outputPath)}

	if cfg.Sheets.SpreadsheetURL != "" {
		spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
		if spreadsheetID == "" {
			return errors.Newf("could not extract spreadsheet ID from %q", cfg.Sheets.SpreadsheetURL)
		}
		writer, err := sheets.NewWriter(ctx, spreadsheetID, cfg.Sheets.CredentialsPath, logger)
		if err != nil {
			return errors.Wrap(err, "failed to initialize Google Sheets writer")
		}
		exporters = append(exporters, writer)
	}

	if cfg.Database.URL != "" {
		database, err := db.NewDB(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		exporters = append(exporters, database.Exporter(scrapeRun))
	}

	if err := exporters.Export(ctx, quotes); err != nil {
		return err
	}

	logger.Infow("Wrote quotes", "path", outputPath, "quotes", len(quotes), "pages", scrapeRun.Pages)
	return nil
}

func newFetcher(cfg *config.Config) (fetcher.Fetcher, func(), error) {
	switch cfg.Fetcher {
	case config.FetcherBrowser:
		rf, err := fetcher.NewRodFetcher(cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return rf, func() { rf.Close() }, nil
	default:
		return fetcher.NewCollyFetcher(cfg.UserAgent), func() {}, nil
	}
}
