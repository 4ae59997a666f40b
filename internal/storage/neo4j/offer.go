package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/repository"
	pkgneo4j "github.com/honeycarbs/offerscout/pkg/neo4j"
)

var _ repository.OfferRepository = (*OfferRepository)(nil)

// OfferRepository archives offers as (Job)-[:OFFERED_BY]->(Company) and
// (Job)-[:REQUIRES]->(Skill) subgraphs
type OfferRepository struct {
	client *pkgneo4j.Client
}

// NewOfferRepository creates an OfferRepository with a Neo4j client
func NewOfferRepository(client *pkgneo4j.Client) *OfferRepository {
	return &OfferRepository{client: client}
}

// UpsertOffers merges offers keyed by source and provider id
func (r *OfferRepository) UpsertOffers(ctx context.Context, offers []domain.JobOffer) error {
	if len(offers) == 0 {
		return nil
	}

	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		UNWIND $offers AS offer
		MERGE (j:Job {source: offer.source, externalId: offer.externalId})
		SET j.title = offer.title,
		    j.location = offer.location,
		    j.description = offer.description,
		    j.contractType = offer.contractType,
		    j.experience = offer.experience,
		    j.remote = offer.remote,
		    j.url = offer.url,
		    j.publishedAt = datetime({epochMillis: offer.publishedAt}),
		    j.salaryMin = offer.salaryMin,
		    j.salaryMax = offer.salaryMax,
		    j.salaryCurrency = offer.salaryCurrency,
		    j.salaryPeriod = offer.salaryPeriod,
		    j.tags = offer.tags,
		    j.companyLogo = offer.companyLogo,
		    j.archivedAt = datetime()
		WITH j, offer
		MERGE (c:Company {key: toLower(offer.company)})
		SET c.name = offer.company
		MERGE (j)-[:OFFERED_BY]->(c)
		WITH j, offer
		FOREACH (skill IN offer.skills |
			MERGE (s:Skill {key: toLower(skill)})
			SET s.name = skill
			MERGE (j)-[:REQUIRES]->(s)
		)
	`

	params := make([]map[string]any, 0, len(offers))
	for _, o := range offers {
		params = append(params, offerParams(o))
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"offers": params})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to archive offers: %w", err)
	}
	return nil
}

// RecentOffers returns the most recently archived offers
func (r *OfferRepository) RecentOffers(ctx context.Context, limit int) ([]domain.JobOffer, error) {
	if limit <= 0 {
		limit = domain.PageSize
	}

	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (j:Job)
		OPTIONAL MATCH (j)-[:OFFERED_BY]->(c:Company)
		OPTIONAL MATCH (j)-[:REQUIRES]->(s:Skill)
		WITH j, c, collect(DISTINCT s.name) AS skills
		ORDER BY j.archivedAt DESC
		LIMIT $limit
		RETURN j, c.name AS company, skills
	`

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load archived offers: %w", err)
	}

	out := make([]domain.JobOffer, 0, limit)
	for _, record := range records.([]*neo4j.Record) {
		jobVal, _ := record.Get("j")
		node, ok := jobVal.(neo4j.Node)
		if !ok {
			continue
		}
		company, _ := record.Get("company")
		skills, _ := record.Get("skills")
		out = append(out, offerFromNode(node, company, skills))
	}
	return out, nil
}

func offerParams(o domain.JobOffer) map[string]any {
	p := map[string]any{
		"source":         string(o.Source),
		"externalId":     o.ID,
		"title":          o.Title,
		"company":        o.Company,
		"location":       o.Location,
		"description":    o.Description,
		"contractType":   string(o.ContractType),
		"experience":     string(o.Experience),
		"remote":         o.Remote,
		"url":            o.URL,
		"publishedAt":    o.PublishedAt.UnixMilli(),
		"tags":           nonNil(o.Tags),
		"skills":         nonNil(o.Requirements),
		"companyLogo":    o.CompanyLogo,
		"salaryMin":      nil,
		"salaryMax":      nil,
		"salaryCurrency": nil,
		"salaryPeriod":   nil,
	}
	if o.Salary != nil {
		p["salaryMin"] = o.Salary.Min
		p["salaryMax"] = o.Salary.Max
		p["salaryCurrency"] = o.Salary.Currency
		p["salaryPeriod"] = string(o.Salary.Period)
	}
	return p
}

func offerFromNode(node neo4j.Node, company, skills any) domain.JobOffer {
	props := node.Props
	o := domain.JobOffer{
		ID:           getStringProp(props, "externalId"),
		Title:        getStringProp(props, "title"),
		Location:     getStringProp(props, "location"),
		Description:  getStringProp(props, "description"),
		ContractType: domain.ContractType(getStringProp(props, "contractType")),
		Experience:   domain.ExperienceLevel(getStringProp(props, "experience")),
		Remote:       getBoolProp(props, "remote"),
		URL:          getStringProp(props, "url"),
		PublishedAt:  getTimeProp(props, "publishedAt"),
		Source:       domain.Source(getStringProp(props, "source")),
		Tags:         getStringsValue(props["tags"]),
		Requirements: getStringsValue(skills),
		CompanyLogo:  getStringProp(props, "companyLogo"),
	}
	if name, ok := company.(string); ok {
		o.Company = name
	}
	if currency := getStringProp(props, "salaryCurrency"); currency != "" {
		o.Salary = &domain.Salary{
			Min:      getFloatProp(props, "salaryMin"),
			Max:      getFloatProp(props, "salaryMax"),
			Currency: currency,
			Period:   domain.SalaryPeriod(getStringProp(props, "salaryPeriod")),
		}
	}
	return o
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func getStringProp(props map[string]any, key string) string {
	v, _ := props[key].(string)
	return v
}

func getBoolProp(props map[string]any, key string) bool {
	v, _ := props[key].(bool)
	return v
}

func getFloatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func getTimeProp(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v
	case neo4j.LocalDateTime:
		return v.Time()
	default:
		return time.Time{}
	}
}

func getStringsValue(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
