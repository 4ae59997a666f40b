package job

import (
	"sort"
	"strings"

	"github.com/honeycarbs/offerscout/internal/domain"
)

type dedupKey struct {
	title   string
	company string
}

func keyOf(o domain.JobOffer) dedupKey {
	return dedupKey{
		title:   strings.ToLower(o.Title),
		company: strings.ToLower(o.Company),
	}
}

// Dedupe collapses offers sharing a lower-cased (title, company) pair,
// keeping the one with the strictly longest description. Ties keep the
// earliest offer. Group order follows first appearance.
func Dedupe(offers []domain.JobOffer) []domain.JobOffer {
	index := make(map[dedupKey]int, len(offers))
	out := make([]domain.JobOffer, 0, len(offers))

	for _, o := range offers {
		k := keyOf(o)
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, o)
			continue
		}
		if len(o.Description) > len(out[i].Description) {
			out[i] = o
		}
	}
	return out
}

// SortByPublished orders offers most recent first; equal dates keep their order
func SortByPublished(offers []domain.JobOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].PublishedAt.After(offers[j].PublishedAt)
	})
}

// Merge combines successful provider pages into one aggregated page.
// TotalCount is the sum of what each provider reported, not the deduplicated
// size: providers cannot know about each other's overlap.
func Merge(pages []domain.SearchResult, page int) domain.SearchResult {
	var all []domain.JobOffer
	total := 0
	for _, p := range pages {
		all = append(all, p.Offers...)
		total += p.TotalCount
	}

	merged := Dedupe(all)
	SortByPublished(merged)

	n := min(len(merged), domain.PageSize)
	visible := make([]domain.JobOffer, n)
	copy(visible, merged[:n])

	return domain.SearchResult{
		Offers:      visible,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  domain.TotalPages(total),
		HasMore:     len(merged) > domain.PageSize,
	}
}
