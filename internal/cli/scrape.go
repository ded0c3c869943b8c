package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/keiba-flat/internal/convert"
	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/scraper"
	"github.com/pfrederiksen/keiba-flat/internal/storage"
)

type scrapeOptions struct {
	out      string
	since    string
	maxRaces int
	rate     float64
	summary  string
}

func newScrapeCmd(a *app) *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl netkeiba race results into a race file",
		Long: `Scrape walks the netkeiba race calendar month by month, newest first, and saves
every race result page it finds as a JSON array. The crawl stops at the --since date
or after --max-races races. An interrupted crawl saves what it has collected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("since") {
				a.cfg.Scrape.Since = opts.since
			}
			if flags.Changed("max-races") {
				a.cfg.Scrape.MaxRaces = opts.maxRaces
			}
			if flags.Changed("rate") {
				a.cfg.Scrape.Rate = opts.rate
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runScrape(cmd.Context(), a, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", storage.DefaultRacesFile, "Race file, relative to the data directory")
	cmd.Flags().StringVar(&opts.since, "since", scraper.DefaultSince, "Stop at calendar months dated on or before YYYYMMDD")
	cmd.Flags().IntVar(&opts.maxRaces, "max-races", 0, "Stop after this many races (0 for no limit)")
	cmd.Flags().Float64Var(&opts.rate, "rate", 1, "Requests per second")
	cmd.Flags().StringVar(&opts.summary, "summary", string(SummaryText), "Run summary on stderr: text, json or none")

	return cmd
}

func runScrape(ctx context.Context, a *app, opts *scrapeOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.writeMetrics()

	summaryFormat, err := ParseSummaryFormat(opts.summary)
	if err != nil {
		return err
	}

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	sc := scraper.New(a.cfg.ScraperConfig(), scraper.WithLogger(a.log), scraper.WithMetrics(a.metrics))
	races, crawlErr := sc.Scrape(ctx)

	if crawlErr != nil && !errors.Is(crawlErr, context.Canceled) {
		return fmt.Errorf("scraping: %w", crawlErr)
	}

	path := store.Path(opts.out)
	if err := store.SaveRaces(opts.out, races); err != nil {
		return fmt.Errorf("saving races: %w", err)
	}
	a.log.Info("races saved", logger.Fields{"path": path, "races": len(races)})

	if err := WriteSummary(cmd.ErrOrStderr(), &RunResult{
		FinishedAt: time.Now().UTC(),
		Output:     path,
		Summary:    convert.Summary{Races: len(races)},
	}, summaryFormat); err != nil {
		return err
	}
	return crawlErr
}
