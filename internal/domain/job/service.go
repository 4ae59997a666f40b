package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

const (
	// DefaultCVLocation is used when a CV search gives no location
	DefaultCVLocation = "France"
	// DefaultCVRecencyDays bounds CV searches to recent offers
	DefaultCVRecencyDays = 30
	// MaxCVKeywords is how many CV keywords make up the free-text query
	MaxCVKeywords = 5
	// DefaultArchiveTimeout bounds archiving on the search path
	DefaultArchiveTimeout = 5 * time.Second
)

// Service aggregates every configured provider behind one paginated search
type Service interface {
	Search(ctx context.Context, filters domain.SearchFilters, page int) (domain.SearchResult, error)
	SearchForCV(ctx context.Context, keywords []string, location string, page int) (domain.SearchResult, error)
	Refresh(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, error)
	RecentSearches(ctx context.Context, limit int) []domain.SearchFilters
	CacheStats(ctx context.Context) domain.CacheStats
	InvalidateSearch(ctx context.Context, filters domain.SearchFilters)
	ClearCaches(ctx context.Context)
}

// SearchCache is the persistent, filter-keyed tier
type SearchCache interface {
	Get(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, bool)
	Save(ctx context.Context, filters domain.SearchFilters, result domain.SearchResult)
	Delete(ctx context.Context, filters domain.SearchFilters)
	Recent(ctx context.Context, limit int) []domain.SearchFilters
	Clear(ctx context.Context)
	Stats(ctx context.Context) domain.CacheStats
}

// QueryCache is the short-term tier as seen by the aggregator
type QueryCache interface {
	Clear()
}

// Archive stores freshly aggregated offers for later analysis
type Archive interface {
	UpsertOffers(ctx context.Context, offers []domain.JobOffer) error
}

// Recorder receives search instrumentation
type Recorder interface {
	ObserveProvider(source domain.Source, outcome string, took time.Duration)
	ObserveCacheLookup(hit bool)
	ObserveSearch(outcome string)
}

// AdapterTimeout bounds each provider call; zero disables it
type AdapterTimeout time.Duration

// Option configures Service
type Option func(*config)

type config struct {
	providers  []Provider
	cache      SearchCache
	queryCache QueryCache
	archive    Archive
	recorder   Recorder
	logger     *logging.Logger
	timeout    time.Duration

	archiveTimeout time.Duration
}

// WithProviders sets job providers
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = providers
	}
}

// WithSearchCache sets the persistent search cache
func WithSearchCache(cache SearchCache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithQueryCache sets the short-term cache cleared by ClearCaches
func WithQueryCache(cache QueryCache) Option {
	return func(c *config) {
		c.queryCache = cache
	}
}

// WithArchive enables archiving of aggregated offers
func WithArchive(archive Archive) Option {
	return func(c *config) {
		c.archive = archive
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithAdapterTimeout bounds every provider call
func WithAdapterTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithArchiveTimeout bounds each archive write
func WithArchiveTimeout(d time.Duration) Option {
	return func(c *config) {
		c.archiveTimeout = d
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newService(cfg)
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(
	cache SearchCache,
	queryCache QueryCache,
	providers []Provider,
	archive Archive,
	recorder Recorder,
	logger *logging.Logger,
	timeout AdapterTimeout,
) (Service, error) {
	return newService(&config{
		providers:  providers,
		cache:      cache,
		queryCache: queryCache,
		archive:    archive,
		recorder:   recorder,
		logger:     logger,
		timeout:    time.Duration(timeout),
	})
}

func newService(cfg *config) (Service, error) {
	if cfg.cache == nil {
		return nil, fmt.Errorf("job.Service: search cache is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}
	if cfg.recorder == nil {
		cfg.recorder = nopRecorder{}
	}
	if cfg.archiveTimeout <= 0 {
		cfg.archiveTimeout = DefaultArchiveTimeout
	}

	return &service{
		providers:  cfg.providers,
		cache:      cfg.cache,
		queryCache: cfg.queryCache,
		archive:    cfg.archive,
		recorder:   cfg.recorder,
		logger:     cfg.logger.Named("aggregator"),
		timeout:    cfg.timeout,

		archiveTimeout: cfg.archiveTimeout,
	}, nil
}

type service struct {
	providers  []Provider
	cache      SearchCache
	queryCache QueryCache
	archive    Archive
	recorder   Recorder
	logger     *logging.Logger
	timeout    time.Duration

	archiveTimeout time.Duration
}

// Search returns the aggregated page for filters. Only the first page is
// served from and written to the persistent cache, which is keyed by filters
// alone.
func (s *service) Search(ctx context.Context, filters domain.SearchFilters, page int) (domain.SearchResult, error) {
	if page < 1 {
		page = 1
	}

	if page == 1 {
		if cached, ok := s.cache.Get(ctx, filters); ok {
			s.recorder.ObserveCacheLookup(true)
			s.logger.Debug("search served from cache", "filters", filters.Key())
			return cached, nil
		}
		s.recorder.ObserveCacheLookup(false)
	}

	return s.aggregate(ctx, filters, page)
}

// SearchForCV builds filters from CV keywords and runs the regular search
func (s *service) SearchForCV(ctx context.Context, keywords []string, location string, page int) (domain.SearchResult, error) {
	return s.Search(ctx, CVFilters(keywords, location), page)
}

// Refresh re-queries providers for the first page, bypassing the cache read
func (s *service) Refresh(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, error) {
	return s.aggregate(ctx, filters, 1)
}

func (s *service) RecentSearches(ctx context.Context, limit int) []domain.SearchFilters {
	return s.cache.Recent(ctx, limit)
}

func (s *service) CacheStats(ctx context.Context) domain.CacheStats {
	return s.cache.Stats(ctx)
}

func (s *service) InvalidateSearch(ctx context.Context, filters domain.SearchFilters) {
	s.cache.Delete(ctx, filters)
}

// ClearCaches empties both tiers
func (s *service) ClearCaches(ctx context.Context) {
	if s.queryCache != nil {
		s.queryCache.Clear()
	}
	s.cache.Clear(ctx)
	s.logger.Info("caches cleared")
}

// CVFilters turns CV keywords into search filters: the first MaxCVKeywords
// non-blank keywords form the query, location defaults to France and the
// window to the last 30 days.
func CVFilters(keywords []string, location string) domain.SearchFilters {
	terms := make([]string, 0, MaxCVKeywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		terms = append(terms, kw)
		if len(terms) == MaxCVKeywords {
			break
		}
	}

	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultCVLocation
	}

	return domain.SearchFilters{
		Query:               strings.Join(terms, " "),
		Location:            location,
		PublishedWithinDays: DefaultCVRecencyDays,
	}
}

type outcome struct {
	source domain.Source
	result domain.SearchResult
	err    error
}

func (s *service) aggregate(ctx context.Context, filters domain.SearchFilters, page int) (domain.SearchResult, error) {
	selected := s.selectProviders(filters)
	if len(selected) == 0 {
		s.recorder.ObserveSearch("unconfigured")
		return domain.SearchResult{}, fmt.Errorf("%w: set credentials for at least one of adzuna, jsearch, france_travail", ErrNoProviderConfigured)
	}

	outcomes := s.fanOut(ctx, selected, filters, page)

	var (
		pages    []domain.SearchResult
		failures []error
	)
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			pages = append(pages, o.result)
		case errors.Is(o.err, ErrNotConfigured):
			s.logger.Debug("provider skipped", "source", o.source)
		default:
			s.logger.Warn("job provider failed", "source", o.source, "err", o.err)
			failures = append(failures, NewAdapterError(o.source, o.err))
		}
	}

	if len(pages) == 0 {
		s.recorder.ObserveSearch("failed")
		if len(failures) == 0 {
			return domain.SearchResult{}, ErrNoProviderConfigured
		}
		return domain.SearchResult{}, &AggregateError{Failures: failures}
	}

	result := Merge(pages, page)
	s.recorder.ObserveSearch("ok")

	if page == 1 {
		s.cache.Save(ctx, filters, result)
	}
	if s.archive != nil && len(result.Offers) > 0 {
		s.archiveOffers(ctx, result.Offers)
	}

	s.logger.Info("aggregated search",
		"providers_ok", len(pages),
		"providers_failed", len(failures),
		"total", result.TotalCount,
		"returned", len(result.Offers),
	)
	return result, nil
}

func (s *service) archiveOffers(ctx context.Context, offers []domain.JobOffer) {
	ctx, cancel := context.WithTimeout(ctx, s.archiveTimeout)
	defer cancel()

	if err := s.archive.UpsertOffers(ctx, offers); err != nil {
		s.logger.Warn("failed to archive offers", "err", err, "count", len(offers))
	}
}

func (s *service) selectProviders(filters domain.SearchFilters) []Provider {
	out := make([]Provider, 0, len(s.providers))
	for _, p := range s.providers {
		if p == nil || !p.Configured() || !filters.WantsSource(p.Source()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// fanOut calls every provider concurrently and waits for all of them.
// A failing or slow provider never cancels the others.
func (s *service) fanOut(ctx context.Context, providers []Provider, filters domain.SearchFilters, page int) []outcome {
	outcomes := make([]outcome, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			outcomes[i] = s.call(ctx, p, filters, page)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *service) call(ctx context.Context, p Provider, filters domain.SearchFilters, page int) (o outcome) {
	o.source = p.Source()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.err = fmt.Errorf("provider panicked: %v", r)
		}
		label := "ok"
		switch {
		case errors.Is(o.err, ErrNotConfigured):
			label = "not_configured"
		case o.err != nil:
			label = "error"
		}
		s.recorder.ObserveProvider(o.source, label, time.Since(start))
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	o.result, o.err = p.Search(ctx, filters, page)
	return o
}

type nopRecorder struct{}

func (nopRecorder) ObserveProvider(domain.Source, string, time.Duration) {}
func (nopRecorder) ObserveCacheLookup(bool)                              {}
func (nopRecorder) ObserveSearch(string)                                 {}
