package repository

import (
	"context"

	"github.com/honeycarbs/offerscout/internal/domain"
)

// SkillCount is how many archived offers require a skill
type SkillCount struct {
	Skill  string
	Offers int
}

// SkillCooccurrence represents skills frequently appearing together
type SkillCooccurrence struct {
	Skill      string
	Cooccurs   int
	CommonWith []string
}

// OfferRepository archives aggregated offers
type OfferRepository interface {
	UpsertOffers(ctx context.Context, offers []domain.JobOffer) error
	RecentOffers(ctx context.Context, limit int) ([]domain.JobOffer, error)
}

// SkillRepository answers demand questions over archived offers
type SkillRepository interface {
	TopSkills(ctx context.Context, limit int) ([]SkillCount, error)
	SkillCooccurrences(ctx context.Context, skills []string, limit int) ([]SkillCooccurrence, error)
}
