package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/offerscout/internal/repository"
)

const defaultLimit = 10

// SkillDemand is one ranked skill
type SkillDemand struct {
	Skill      string   `json:"skill"`
	Offers     int      `json:"offers"`
	CommonWith []string `json:"commonWith,omitempty"`
}

// Report ranks skills over the archive
type Report struct {
	Skills      []SkillDemand `json:"skills"`
	RelatedTo   []string      `json:"relatedTo,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Service answers skill-demand questions over archived offers
type Service struct {
	repo repository.SkillRepository
	now  func() time.Time
}

// NewService creates an analysis service
func NewService(repo repository.SkillRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SkillDemand ranks skills by offer count. With skills given, it ranks the
// skills most often required alongside them instead.
func (s *Service) SkillDemand(ctx context.Context, skills []string, limit int) (Report, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	keys := normalize(skills)
	report := Report{Skills: []SkillDemand{}, RelatedTo: keys, GeneratedAt: s.now().UTC()}

	if len(keys) == 0 {
		top, err := s.repo.TopSkills(ctx, limit)
		if err != nil {
			return Report{}, fmt.Errorf("top skills: %w", err)
		}
		for _, sc := range top {
			report.Skills = append(report.Skills, SkillDemand{Skill: sc.Skill, Offers: sc.Offers})
		}
		return report, nil
	}

	related, err := s.repo.SkillCooccurrences(ctx, keys, limit)
	if err != nil {
		return Report{}, fmt.Errorf("related skills: %w", err)
	}
	for _, co := range related {
		report.Skills = append(report.Skills, SkillDemand{
			Skill:      co.Skill,
			Offers:     co.Cooccurs,
			CommonWith: co.CommonWith,
		})
	}
	return report, nil
}

// normalize lower-cases and dedupes skill names to match Skill.key
func normalize(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		k := strings.ToLower(strings.TrimSpace(sk))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
