// Package fieldmap translates provider vocabulary into the canonical enums.
// Every function is pure and never fails: unknown input maps to a documented
// default.
package fieldmap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/honeycarbs/offerscout/internal/domain"
)

// Fallbacks used when a provider omits a display field
const (
	FallbackTitle    = "Titre non spécifié"
	FallbackCompany  = "Entreprise non spécifiée"
	FallbackLocation = "Localisation non spécifiée"
)

// DefaultContract is returned for unknown or missing contract strings.
// This is a known approximation: many providers only describe working time.
const DefaultContract = domain.ContractCDI

// DefaultExperience is returned when no seniority signal is found
const DefaultExperience = domain.ExperienceConfirmed

// commonContracts applies to every provider after its own table misses
var commonContracts = map[string]domain.ContractType{
	"cdi":            domain.ContractCDI,
	"permanent":      domain.ContractCDI,
	"fulltime":       domain.ContractCDI,
	"full_time":      domain.ContractCDI,
	"full-time":      domain.ContractCDI,
	"cdd":            domain.ContractCDD,
	"temporary":      domain.ContractCDD,
	"contract":       domain.ContractCDD,
	"internship":     domain.ContractStage,
	"intern":         domain.ContractStage,
	"stage":          domain.ContractStage,
	"freelance":      domain.ContractFreelance,
	"contractor":     domain.ContractFreelance,
	"apprenticeship": domain.ContractAlternance,
	"alternance":     domain.ContractAlternance,
	"parttime":       domain.ContractPartTime,
	"part_time":      domain.ContractPartTime,
	"part-time":      domain.ContractPartTime,
	"temps partiel":  domain.ContractPartTime,
}

// ContractType lower-cases raw and resolves it through the provider table,
// then the common table, defaulting to CDI.
func ContractType(raw string, synonyms map[string]domain.ContractType) domain.ContractType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return DefaultContract
	}
	if ct, ok := synonyms[key]; ok {
		return ct
	}
	if ct, ok := commonContracts[key]; ok {
		return ct
	}
	return DefaultContract
}

// ExperienceFromHint classifies a provider seniority hint by substring
func ExperienceFromHint(hint string) domain.ExperienceLevel {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case h == "":
		return DefaultExperience
	case strings.Contains(h, "senior"), strings.Contains(h, "lead"):
		return domain.ExperienceSenior
	case strings.Contains(h, "expert"), strings.Contains(h, "principal"):
		return domain.ExperienceExpert
	case strings.Contains(h, "entry"), strings.Contains(h, "junior"), h == "0":
		return domain.ExperienceJunior
	default:
		return DefaultExperience
	}
}

// ExperienceFromMonths classifies a numeric experience requirement.
// Zero months means an entry-level position.
func ExperienceFromMonths(months int) domain.ExperienceLevel {
	switch {
	case months <= 0:
		return domain.ExperienceJunior
	case months >= 60:
		return domain.ExperienceSenior
	default:
		return DefaultExperience
	}
}

var experienceFamilies = []struct {
	level    domain.ExperienceLevel
	keywords []string
}{
	{domain.ExperienceJunior, []string{"débutant", "debutant", "junior", "jeune diplômé", "jeune diplome"}},
	{domain.ExperienceSenior, []string{"senior", "confirmé", "confirme", "expert"}},
	{domain.ExperienceExpert, []string{"directeur", "director", "manager", "responsable"}},
	{domain.ExperienceJunior, []string{"stage", "stagiaire", "alternance"}},
}

// ExperienceFromText scans free text for French/English keyword families.
// Families are checked in order and the first hit wins.
func ExperienceFromText(texts ...string) domain.ExperienceLevel {
	text := strings.ToLower(strings.Join(texts, " "))
	if strings.TrimSpace(text) == "" {
		return DefaultExperience
	}
	for _, fam := range experienceFamilies {
		for _, kw := range fam.keywords {
			if strings.Contains(text, kw) {
				return fam.level
			}
		}
	}
	return DefaultExperience
}

// SalaryPeriod maps provider period labels, defaulting to year
func SalaryPeriod(raw string) domain.SalaryPeriod {
	p := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(p, "hour"), strings.HasPrefix(p, "horaire"), p == "h":
		return domain.PeriodHour
	case strings.HasPrefix(p, "month"), strings.HasPrefix(p, "mensuel"), p == "m":
		return domain.PeriodMonth
	default:
		return domain.PeriodYear
	}
}

var remoteMarkers = []string{"remote", "télétravail", "teletravail", "full remote", "home office"}

// DetectRemote reports whether any text advertises remote work
func DetectRemote(texts ...string) bool {
	text := strings.ToLower(strings.Join(texts, " "))
	for _, m := range remoteMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Or returns v, or fallback when v is blank
func Or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

var amountPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseSalaryLabel extracts a numeric range and period from a French label
// such as "Mensuel de 2000.0 Euros à 2500.0 Euros sur 12 mois".
func ParseSalaryLabel(label string) *domain.Salary {
	lower := strings.ToLower(label)
	if idx := strings.Index(lower, " sur "); idx >= 0 {
		lower = lower[:idx]
	}
	matches := amountPattern.FindAllString(lower, 2)
	if len(matches) == 0 {
		return nil
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, v)
	}
	if len(amounts) == 0 {
		return nil
	}

	salary := &domain.Salary{
		Min:      amounts[0],
		Max:      amounts[len(amounts)-1],
		Currency: "EUR",
		Period:   SalaryPeriod(strings.Fields(lower)[0]),
	}
	if strings.Contains(lower, "annuel") {
		salary.Period = domain.PeriodYear
	}
	return salary
}
