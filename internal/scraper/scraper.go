package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/keiba-flat/internal/logger"
	"github.com/pfrederiksen/keiba-flat/internal/metrics"
	"github.com/pfrederiksen/keiba-flat/internal/race"
)

const (
	StartURL  = "http://db.netkeiba.com/?pid=race_top"
	UserAgent = "keiba-flat/1.0 (github.com/pfrederiksen/keiba-flat)"
	Timeout   = 30 * time.Second

	// DefaultSince is the calendar cutoff; months up to and including it are not visited.
	DefaultSince = "20071231"
)

const (
	selDayLinks    = ".race_calendar td a"
	selRaceLinks   = ".race_top_data_info > dd > a"
	selPrevMonth   = ".race_calendar li.rev a"
	selResultRows  = ".race_table_01 tr"
	selTitle       = "title"
	selDiary       = "diary_snap_cut span"
	selSmallText   = "p.smalltxt"
	minResultRows  = 2
	prevMonthIndex = 1
)

var calendarDate = regexp.MustCompile(`date=([0-9]+)`)

var (
	// errEnough stops a crawl once MaxRaces races are collected.
	errEnough  = errors.New("race limit reached")
	errVisited = errors.New("already visited")
)

// Config controls a crawl.
type Config struct {
	StartURL  string
	Since     string        // YYYYMMDD
	UserAgent string
	Timeout   time.Duration // per request
	Rate      float64       // requests per second, <= 0 for unlimited
	Burst     int
	MaxRaces  int // 0 for no limit
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		StartURL:  StartURL,
		Since:     DefaultSince,
		UserAgent: UserAgent,
		Timeout:   Timeout,
		Rate:      1,
		Burst:     1,
	}
}

// Scraper fetches and parses netkeiba pages.
type Scraper struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter
	log     *logger.Logger
	metrics *metrics.Metrics
	visited map[string]bool
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// New creates a Scraper. Zero fields of cfg fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Scraper {
	def := DefaultConfig()
	if cfg.StartURL == "" {
		cfg.StartURL = def.StartURL
	}
	if cfg.Since == "" {
		cfg.Since = def.Since
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	s := &Scraper{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape crawls from the start page and returns the races found, in crawl order.
// When ctx is cancelled the races collected so far are returned with the error.
func (s *Scraper) Scrape(ctx context.Context) ([]race.RawRace, error) {
	var races []race.RawRace
	err := s.Crawl(ctx, func(rr race.RawRace) error {
		races = append(races, rr)
		return nil
	})
	return races, err
}

// Crawl walks the calendar and calls emit for every race page with results. An
// error from emit stops the crawl and is returned.
func (s *Scraper) Crawl(ctx context.Context, emit func(race.RawRace) error) error {
	runID := uuid.NewString()
	s.visited = make(map[string]bool)

	count := 0
	collect := func(rr race.RawRace) error {
		if err := emit(rr); err != nil {
			return err
		}
		count++
		if s.cfg.MaxRaces > 0 && count >= s.cfg.MaxRaces {
			return errEnough
		}
		return nil
	}

	s.log.Info("crawl started", logger.Fields{"run_id": runID, "start_url": s.cfg.StartURL, "since": s.cfg.Since})

	err := s.crawlCalendar(ctx, s.cfg.StartURL, collect)
	if errors.Is(err, errEnough) {
		err = nil
	}

	fields := logger.Fields{"run_id": runID, "races": count}
	if err != nil {
		s.log.Error("crawl stopped", fields, err)
		return err
	}
	s.log.Info("crawl finished", fields)
	return nil
}

func (s *Scraper) crawlCalendar(ctx context.Context, pageURL string, emit func(race.RawRace) error) error {
	for pageURL != "" {
		doc, err := s.fetch(ctx, pageURL, "calendar")
		if errors.Is(err, errVisited) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, day := range links(doc, selDayLinks) {
			if err := s.crawlDay(ctx, day, emit); err != nil {
				return err
			}
		}

		pageURL = s.previousMonth(doc)
	}
	return nil
}

func (s *Scraper) crawlDay(ctx context.Context, dayURL string, emit func(race.RawRace) error) error {
	doc, err := s.fetch(ctx, dayURL, "day")
	if err != nil {
		return s.skip(ctx, dayURL, err)
	}

	for _, raceURL := range links(doc, selRaceLinks) {
		page, err := s.fetch(ctx, raceURL, "race")
		if err != nil {
			if err := s.skip(ctx, raceURL, err); err != nil {
				return err
			}
			continue
		}

		rr, ok := ParseRace(page)
		if !ok {
			s.log.Debug("no result table", logger.Fields{"url": raceURL})
			continue
		}
		if err := emit(rr); err != nil {
			return err
		}
	}
	return nil
}

// skip logs a page that could not be fetched. Cancellation still stops the crawl.
func (s *Scraper) skip(ctx context.Context, pageURL string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, errVisited) {
		return nil
	}
	s.log.Warn("skipping page", logger.Fields{"url": pageURL, "error": err.Error()})
	return nil
}

// previousMonth returns the calendar link one month back, or "" once the cutoff
// is reached.
func (s *Scraper) previousMonth(doc *goquery.Document) string {
	prev := links(doc, selPrevMonth)
	if len(prev) <= prevMonthIndex {
		return ""
	}

	next := prev[prevMonthIndex]
	m := calendarDate.FindStringSubmatch(next)
	if m == nil || m[1] <= s.cfg.Since {
		return ""
	}
	return next
}

func (s *Scraper) fetch(ctx context.Context, pageURL, kind string) (*goquery.Document, error) {
	if s.visited[pageURL] {
		return nil, errVisited
	}
	s.visited[pageURL] = true

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	s.metrics.PageFetched(kind, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", pageURL, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// links returns the absolute hrefs of the elements matching selector.
func links(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if abs := resolve(doc.Url, href); abs != "" {
			out = append(out, abs)
		}
	})
	return out
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
