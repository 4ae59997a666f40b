package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/offerscout/internal/repository"
	pkgneo4j "github.com/honeycarbs/offerscout/pkg/neo4j"
)

var _ repository.SkillRepository = (*SkillRepository)(nil)

// SkillRepository aggregates skill demand over archived offers
type SkillRepository struct {
	client *pkgneo4j.Client
}

func NewSkillRepository(client *pkgneo4j.Client) *SkillRepository {
	return &SkillRepository{client: client}
}

// TopSkills ranks skills by the number of offers requiring them
func (r *SkillRepository) TopSkills(ctx context.Context, limit int) ([]repository.SkillCount, error) {
	query := `
		MATCH (j:Job)-[:REQUIRES]->(s:Skill)
		RETURN s.name AS skill, count(DISTINCT j) AS offers
		ORDER BY offers DESC, skill ASC
		LIMIT $limit
	`

	records, err := r.read(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to rank skills: %w", err)
	}

	out := make([]repository.SkillCount, 0, len(records))
	for _, record := range records {
		skill, _ := record.Get("skill")
		offers, _ := record.Get("offers")
		name, _ := skill.(string)
		count, _ := offers.(int64)
		out = append(out, repository.SkillCount{Skill: name, Offers: int(count)})
	}
	return out, nil
}

// SkillCooccurrences finds skills that commonly appear with given skills
func (r *SkillRepository) SkillCooccurrences(ctx context.Context, skills []string, limit int) ([]repository.SkillCooccurrence, error) {
	if len(skills) == 0 {
		return nil, nil
	}

	query := `
		MATCH (j:Job)-[:REQUIRES]->(s1:Skill)
		WHERE s1.key IN $skills
		MATCH (j)-[:REQUIRES]->(s2:Skill)
		WHERE NOT s2.key IN $skills
		WITH s2.name AS skill, count(DISTINCT j) AS cooccurs, collect(DISTINCT s1.name) AS commonWith
		RETURN skill, cooccurs, commonWith
		ORDER BY cooccurs DESC, skill ASC
		LIMIT $limit
	`

	records, err := r.read(ctx, query, map[string]any{"skills": skills, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to load skill co-occurrences: %w", err)
	}

	out := make([]repository.SkillCooccurrence, 0, len(records))
	for _, record := range records {
		skill, _ := record.Get("skill")
		cooccurs, _ := record.Get("cooccurs")
		commonWith, _ := record.Get("commonWith")
		name, _ := skill.(string)
		count, _ := cooccurs.(int64)
		out = append(out, repository.SkillCooccurrence{
			Skill:      name,
			Cooccurs:   int(count),
			CommonWith: getStringsValue(commonWith),
		})
	}
	return out, nil
}

func (r *SkillRepository) read(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}
