package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/offerscout/internal/cache/memory"
	"github.com/honeycarbs/offerscout/internal/cache/searchcache"
	"github.com/honeycarbs/offerscout/internal/config"
	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/analysis"
	"github.com/honeycarbs/offerscout/internal/domain/job"
	adzunaprovider "github.com/honeycarbs/offerscout/internal/domain/job/providers/adzuna"
	ftprovider "github.com/honeycarbs/offerscout/internal/domain/job/providers/francetravail"
	jsearchprovider "github.com/honeycarbs/offerscout/internal/domain/job/providers/jsearch"
	"github.com/honeycarbs/offerscout/internal/mcp/tools"
	memstore "github.com/honeycarbs/offerscout/internal/storage/memory"
	neo4jstore "github.com/honeycarbs/offerscout/internal/storage/neo4j"
	redisstore "github.com/honeycarbs/offerscout/internal/storage/redis"
	sqlitestore "github.com/honeycarbs/offerscout/internal/storage/sqlite"
	"github.com/honeycarbs/offerscout/pkg/adzuna"
	"github.com/honeycarbs/offerscout/pkg/francetravail"
	"github.com/honeycarbs/offerscout/pkg/jsearch"
	"github.com/honeycarbs/offerscout/pkg/logging"
	n4j "github.com/honeycarbs/offerscout/pkg/neo4j"
	"github.com/honeycarbs/offerscout/pkg/sheets"
)

// provideQueryCache creates the short-term tier shared by all adapters
func provideQueryCache(cfg config.Config) *memory.Cache[domain.SearchResult] {
	return memory.New[domain.SearchResult](memory.WithTTL(cfg.QueryCacheTTL))
}

// provideSearchStore opens the configured backend of the search history
func provideSearchStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (searchcache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.BackendMemory:
		logger.Info("search history kept in memory")
		return memstore.NewStore(), func() {}, nil

	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("search history stored in redis")
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close redis client", "err", err)
			}
		}
		return redisstore.NewStore(client, redisstore.DefaultPrefix), cleanup, nil

	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("search history stored in sqlite", "path", cfg.SQLitePath)
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close sqlite database", "err", err)
			}
		}
		return sqlitestore.NewStore(db), cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

func provideSearchCache(store searchcache.Store, cfg config.Config, logger *logging.Logger) *searchcache.Cache {
	return searchcache.New(store, logger,
		searchcache.WithTTL(cfg.SearchCacheTTL),
		searchcache.WithCapacity(cfg.SearchHistorySize),
	)
}

// Unconfigured adapters are still registered: they answer ErrNotConfigured
// and are skipped by the aggregator.

func provideAdzunaProvider(cfg config.Config, cache job.ResultCache, logger *logging.Logger) *adzunaprovider.Provider {
	client, err := adzuna.NewClient(adzuna.Config{
		AppID:         cfg.Adzuna.AppID,
		AppKey:        cfg.Adzuna.AppKey,
		Country:       cfg.Adzuna.Country,
		RatePerSecond: cfg.AdapterRPS,
	})
	if err != nil {
		logProviderSkipped(logger, domain.SourceAdzuna, err, adzuna.ErrMissingCredentials)
		return adzunaprovider.NewProvider(nil, cache)
	}
	logger.Info("Adzuna provider initialized", "country", client.Country())
	return adzunaprovider.NewProvider(client, cache)
}

func provideJSearchProvider(cfg config.Config, cache job.ResultCache, logger *logging.Logger) *jsearchprovider.Provider {
	client, err := jsearch.NewClient(jsearch.Config{
		APIKey:        cfg.JSearch.APIKey,
		Host:          cfg.JSearch.Host,
		RatePerSecond: cfg.AdapterRPS,
	})
	if err != nil {
		logProviderSkipped(logger, domain.SourceJSearch, err, jsearch.ErrMissingAPIKey)
		return jsearchprovider.NewProvider(nil, cache)
	}
	logger.Info("JSearch provider initialized")
	return jsearchprovider.NewProvider(client, cache)
}

func provideFranceTravailProvider(cfg config.Config, cache job.ResultCache, logger *logging.Logger) *ftprovider.Provider {
	client, err := francetravail.NewClient(francetravail.Config{
		ClientID:      cfg.FranceTravail.ClientID,
		ClientSecret:  cfg.FranceTravail.ClientSecret,
		RatePerSecond: cfg.AdapterRPS,
	})
	if err != nil {
		logProviderSkipped(logger, domain.SourceFranceTravail, err, francetravail.ErrMissingCredentials)
		return ftprovider.NewProvider(nil, cache)
	}
	logger.Info("France Travail provider initialized")
	return ftprovider.NewProvider(client, cache)
}

func logProviderSkipped(logger *logging.Logger, source domain.Source, err, missing error) {
	if errors.Is(err, missing) {
		logger.Info("provider not configured", "source", source)
		return
	}
	logger.Warn("failed to initialize provider", "source", source, "err", err)
}

func provideJobProviders(
	a *adzunaprovider.Provider,
	j *jsearchprovider.Provider,
	f *ftprovider.Provider,
) []job.Provider {
	return []job.Provider{a, j, f}
}

func provideAdapterTimeout(cfg config.Config) job.AdapterTimeout {
	return job.AdapterTimeout(cfg.AdapterTimeout)
}

// provideNeo4jClient connects only when the archive is enabled
func provideNeo4jClient(ctx context.Context, cfg config.Config, logger *logging.Logger) (*n4j.Client, func(), error) {
	if !cfg.ArchiveEnabled() {
		logger.Info("offer archive disabled (NEO4J_URI not set)")
		return nil, func() {}, nil
	}

	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)

	cleanup := func() {
		if err := client.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to close Neo4j driver", "err", err)
		}
	}
	return client, cleanup, nil
}

func provideOfferRepository(client *n4j.Client) *neo4jstore.OfferRepository {
	if client == nil {
		return nil
	}
	return neo4jstore.NewOfferRepository(client)
}

func provideArchive(repo *neo4jstore.OfferRepository) job.Archive {
	if repo == nil {
		return nil
	}
	return repo
}

func provideArchiveReader(repo *neo4jstore.OfferRepository) tools.ArchiveReader {
	if repo == nil {
		return nil
	}
	return repo
}

func provideSkillAnalyzer(client *n4j.Client) tools.SkillAnalyzer {
	if client == nil {
		return nil
	}
	return analysis.NewService(neo4jstore.NewSkillRepository(client))
}

// provideSheetsExporter returns nil when no credentials are configured
func provideSheetsExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) tools.SheetsExporter {
	if cfg.SheetsCredentialsPath == "" {
		return nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.SheetsCredentialsPath})
	if err != nil {
		logger.Warn("failed to initialize Google Sheets client", "err", err)
		return nil
	}
	logger.Info("Google Sheets client initialized")
	return newSheetsExporter(client)
}
