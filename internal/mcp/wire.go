//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/offerscout/internal/cache/memory"
	"github.com/honeycarbs/offerscout/internal/cache/searchcache"
	"github.com/honeycarbs/offerscout/internal/config"
	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/internal/telemetry"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Caches
		provideQueryCache,
		wire.Bind(new(job.ResultCache), new(*memory.Cache[domain.SearchResult])),
		wire.Bind(new(job.QueryCache), new(*memory.Cache[domain.SearchResult])),
		provideSearchStore,
		provideSearchCache,
		wire.Bind(new(job.SearchCache), new(*searchcache.Cache)),

		// Providers
		provideAdzunaProvider,
		provideJSearchProvider,
		provideFranceTravailProvider,
		provideJobProviders,

		// Archive - Neo4j
		provideNeo4jClient,
		provideOfferRepository,
		provideArchive,
		provideArchiveReader,
		provideSkillAnalyzer,

		// Metrics
		telemetry.New,
		wire.Bind(new(job.Recorder), new(*telemetry.Metrics)),

		// Services
		provideAdapterTimeout,
		job.NewServiceWithDeps,

		provideSheetsExporter,
		newResources,
	)

	return nil, nil, nil
}
