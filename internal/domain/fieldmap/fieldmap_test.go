package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/offerscout/internal/domain"
)

func TestContractType(t *testing.T) {
	table := map[string]domain.ContractType{
		"mis": domain.ContractCDD,
	}

	cases := []struct {
		raw  string
		want domain.ContractType
	}{
		{"FULLTIME", domain.ContractCDI},
		{"internship", domain.ContractStage},
		{"Apprenticeship", domain.ContractAlternance},
		{"MIS", domain.ContractCDD},
		{"PARTTIME", domain.ContractPartTime},
		{"contractor", domain.ContractFreelance},
		{"", domain.ContractCDI},
		{"something-odd", domain.ContractCDI},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ContractType(c.raw, table), "raw=%q", c.raw)
	}
}

func TestExperienceFromHint(t *testing.T) {
	cases := map[string]domain.ExperienceLevel{
		"Senior":             domain.ExperienceSenior,
		"Tech Lead":          domain.ExperienceSenior,
		"Principal Engineer": domain.ExperienceExpert,
		"expert":             domain.ExperienceExpert,
		"entry_level":        domain.ExperienceJunior,
		"junior":             domain.ExperienceJunior,
		"0":                  domain.ExperienceJunior,
		"mid":                domain.ExperienceConfirmed,
		"":                   domain.ExperienceConfirmed,
	}
	for hint, want := range cases {
		assert.Equal(t, want, ExperienceFromHint(hint), "hint=%q", hint)
	}
}

func TestExperienceFromMonths(t *testing.T) {
	assert.Equal(t, domain.ExperienceJunior, ExperienceFromMonths(0))
	assert.Equal(t, domain.ExperienceConfirmed, ExperienceFromMonths(36))
	assert.Equal(t, domain.ExperienceSenior, ExperienceFromMonths(72))
}

func TestExperienceFromText(t *testing.T) {
	cases := map[string]domain.ExperienceLevel{
		"Développeur Senior Go":            domain.ExperienceSenior,
		"Nous recherchons un jeune diplômé": domain.ExperienceJunior,
		"Responsable d'équipe produit":     domain.ExperienceExpert,
		"Offre de stage en marketing":      domain.ExperienceJunior,
		"Développeur full stack":           domain.ExperienceConfirmed,
		"":                                 domain.ExperienceConfirmed,
	}
	for text, want := range cases {
		assert.Equal(t, want, ExperienceFromText(text), "text=%q", text)
	}
}

func TestExperienceFromText_FamilyOrder(t *testing.T) {
	// junior family is checked before the senior one
	assert.Equal(t, domain.ExperienceJunior, ExperienceFromText("Junior or Senior welcome"))
}

func TestExtractRequirements(t *testing.T) {
	got := ExtractRequirements("Experience with Docker and Python required")
	assert.Equal(t, []string{"Docker", "Python"}, got)
}

func TestExtractRequirements_Capped(t *testing.T) {
	got := ExtractRequirements("python java, golang rust php ruby kotlin")
	require.Len(t, got, MaxRequirements)
	assert.Equal(t, []string{"Python", "Java", "Go", "Rust", "PHP"}, got)
}

func TestExtractRequirements_NoMatch(t *testing.T) {
	got := ExtractRequirements("Vendeur en boulangerie")
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, ExtractRequirements())
}

func TestExtractRequirements_WholeWordsOnly(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"transformation digitale, trust, scalable", []string{}},
		{"postgrespostgresql", []string{}},
		{"PostgreSQL and SQL Server", []string{"PostgreSQL", "SQL"}},
		{"JavaScript then Java", []string{"JavaScript", "Java"}},
		{"expert Java", []string{"Java"}},
		{"ASP.NET, C# et C++", []string{".NET", "C#", "C++"}},
		{"développeur git/linux", []string{"Git", "Linux"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRequirements(tt.text))
		})
	}
}

func TestExtractRequirements_DuplicateLabels(t *testing.T) {
	got := ExtractRequirements("node.js and nodejs")
	assert.Equal(t, []string{"Node.js"}, got)
}

func TestParseSalaryLabel(t *testing.T) {
	s := ParseSalaryLabel("Mensuel de 2000.0 Euros à 2500.0 Euros sur 12 mois")
	require.NotNil(t, s)
	assert.Equal(t, 2000.0, s.Min)
	assert.Equal(t, 2500.0, s.Max)
	assert.Equal(t, domain.PeriodMonth, s.Period)
	assert.Equal(t, "EUR", s.Currency)

	s = ParseSalaryLabel("Annuel de 42000 Euros")
	require.NotNil(t, s)
	assert.Equal(t, 42000.0, s.Min)
	assert.Equal(t, 42000.0, s.Max)
	assert.Equal(t, domain.PeriodYear, s.Period)

	assert.Nil(t, ParseSalaryLabel("Selon profil"))
}

func TestSalaryPeriod(t *testing.T) {
	assert.Equal(t, domain.PeriodHour, SalaryPeriod("HOUR"))
	assert.Equal(t, domain.PeriodMonth, SalaryPeriod("month"))
	assert.Equal(t, domain.PeriodYear, SalaryPeriod("YEAR"))
	assert.Equal(t, domain.PeriodYear, SalaryPeriod(""))
}

func TestDetectRemote(t *testing.T) {
	assert.True(t, DetectRemote("Poste en télétravail partiel"))
	assert.True(t, DetectRemote("Backend engineer", "Fully remote team"))
	assert.False(t, DetectRemote("Sur site à Lyon"))
}

func TestOr(t *testing.T) {
	assert.Equal(t, FallbackTitle, Or("  ", FallbackTitle))
	assert.Equal(t, "Acme", Or(" Acme ", FallbackCompany))
}
