package mcp

import (
	"github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/internal/mcp/tools"
	"github.com/honeycarbs/offerscout/internal/telemetry"
)

// Resources holds everything the MCP tools are served from. Archive,
// Analyzer and Exporter are nil when their backend is not configured.
type Resources struct {
	JobService job.Service
	Archive    tools.ArchiveReader
	Analyzer   tools.SkillAnalyzer
	Exporter   tools.SheetsExporter
	Metrics    *telemetry.Metrics
}

func newResources(
	jobService job.Service,
	archive tools.ArchiveReader,
	analyzer tools.SkillAnalyzer,
	exporter tools.SheetsExporter,
	metrics *telemetry.Metrics,
) *Resources {
	return &Resources{
		JobService: jobService,
		Archive:    archive,
		Analyzer:   analyzer,
		Exporter:   exporter,
		Metrics:    metrics,
	}
}

func (r *Resources) toolOptions() []tools.Option {
	return []tools.Option{
		tools.WithSearchTools(r.JobService),
		tools.WithCacheTools(r.JobService),
		tools.WithExport(r.JobService, r.Exporter),
		tools.WithArchiveTools(r.Archive, r.Analyzer),
	}
}
