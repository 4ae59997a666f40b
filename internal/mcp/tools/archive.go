package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/analysis"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

const defaultArchiveLimit = 20

// ArchiveReader lists archived offers
type ArchiveReader interface {
	RecentOffers(ctx context.Context, limit int) ([]domain.JobOffer, error)
}

// SkillAnalyzer ranks skills over the archive
type SkillAnalyzer interface {
	SkillDemand(ctx context.Context, skills []string, limit int) (analysis.Report, error)
}

// ArchivedOffersParams defines the arguments for the archived_offers tool
type ArchivedOffersParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of offers, default 20"`
}

// ArchivedOffersResult lists archived offers, most recently archived first
type ArchivedOffersResult struct {
	Offers []domain.JobOffer `json:"offers"`
}

// SkillDemandParams defines the arguments for the skill_demand tool
type SkillDemandParams struct {
	Skills []string `json:"skills,omitempty" jsonschema:"Rank skills required alongside these instead of overall demand"`
	Limit  int      `json:"limit,omitempty" jsonschema:"Maximum number of skills, default 10"`
}

type archiveTool struct {
	archive  ArchiveReader
	analyzer SkillAnalyzer
	logger   *logging.Logger
}

// WithArchiveTools registers archived_offers and skill_demand. Both report an
// error when the archive is disabled.
func WithArchiveTools(archive ArchiveReader, analyzer SkillAnalyzer) Option {
	return func(reg *registry) {
		h := archiveTool{archive: archive, analyzer: analyzer, logger: reg.logger}
		addTool(reg, "archived_offers", "List the most recently archived offers", h.offers)
		addTool(reg, "skill_demand", "Rank archived skills by how many offers require them", h.skills)
	}
}

func (t archiveTool) offers(ctx context.Context, _ *sdkmcp.CallToolRequest, params ArchivedOffersParams) (*sdkmcp.CallToolResult, any, error) {
	if t.archive == nil {
		return nil, nil, fmt.Errorf("offer archive not configured (set NEO4J_URI)")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultArchiveLimit
	}

	offers, err := t.archive.RecentOffers(ctx, limit)
	if err != nil {
		t.logger.Error("archived_offers failed", "err", err)
		return nil, nil, fmt.Errorf("list archived offers: %w", err)
	}
	if offers == nil {
		offers = []domain.JobOffer{}
	}

	msg := fmt.Sprintf("[archived_offers] %d offer(s)", len(offers))
	for _, o := range offers {
		msg += fmt.Sprintf("\n• %s, %s [%s]", o.Title, o.Company, o.Source)
	}
	return textResult(msg), ArchivedOffersResult{Offers: offers}, nil
}

func (t archiveTool) skills(ctx context.Context, _ *sdkmcp.CallToolRequest, params SkillDemandParams) (*sdkmcp.CallToolResult, any, error) {
	if t.analyzer == nil {
		return nil, nil, fmt.Errorf("offer archive not configured (set NEO4J_URI)")
	}

	report, err := t.analyzer.SkillDemand(ctx, params.Skills, params.Limit)
	if err != nil {
		t.logger.Error("skill_demand failed", "err", err)
		return nil, nil, err
	}

	var msg string
	if len(report.RelatedTo) > 0 {
		msg = fmt.Sprintf("[skill_demand] %d skill(s) required alongside %s", len(report.Skills), strings.Join(report.RelatedTo, ", "))
	} else {
		msg = fmt.Sprintf("[skill_demand] top %d skill(s)", len(report.Skills))
	}
	for _, s := range report.Skills {
		msg += fmt.Sprintf("\n• %s: %d offer(s)", s.Skill, s.Offers)
	}
	return textResult(msg), report, nil
}
