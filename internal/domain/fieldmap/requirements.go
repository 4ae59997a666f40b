package fieldmap

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// MaxRequirements caps how many technology keywords are kept per offer
const MaxRequirements = 5

// technologies maps lower-case patterns to their display label.
// Several patterns may share one label. A pattern only counts as a whole
// word: its alphanumeric edges must not touch another letter or digit.
var technologies = []struct {
	pattern string
	label   string
}{
	{"javascript", "JavaScript"},
	{"typescript", "TypeScript"},
	{"python", "Python"},
	{"java", "Java"},
	{"golang", "Go"},
	{"rust", "Rust"},
	{"php", "PHP"},
	{"ruby", "Ruby"},
	{"kotlin", "Kotlin"},
	{"swift", "Swift"},
	{"c#", "C#"},
	{".net", ".NET"},
	{"c++", "C++"},
	{"scala", "Scala"},
	{"react", "React"},
	{"angular", "Angular"},
	{"vue.js", "Vue.js"},
	{"vuejs", "Vue.js"},
	{"node.js", "Node.js"},
	{"nodejs", "Node.js"},
	{"django", "Django"},
	{"symfony", "Symfony"},
	{"laravel", "Laravel"},
	{"spring", "Spring"},
	{"docker", "Docker"},
	{"kubernetes", "Kubernetes"},
	{"terraform", "Terraform"},
	{"ansible", "Ansible"},
	{"aws", "AWS"},
	{"azure", "Azure"},
	{"gcp", "GCP"},
	{"postgresql", "PostgreSQL"},
	{"mysql", "MySQL"},
	{"mongodb", "MongoDB"},
	{"redis", "Redis"},
	{"kafka", "Kafka"},
	{"graphql", "GraphQL"},
	{"sql", "SQL"},
	{"linux", "Linux"},
	{"git", "Git"},
	{"figma", "Figma"},
	{"agile", "Agile"},
	{"scrum", "Scrum"},
}

// the matcher keeps per-call state, so Match calls are serialized
var (
	requirementMu      sync.Mutex
	requirementMatcher = func() *ahocorasick.Matcher {
		patterns := make([]string, len(technologies))
		for i, t := range technologies {
			patterns[i] = t.pattern
		}
		return ahocorasick.NewStringMatcher(patterns)
	}()
)

// ExtractRequirements returns up to MaxRequirements technology labels found
// in the texts, in the order they first appear. It is a heuristic and returns
// an empty list when nothing matches.
func ExtractRequirements(texts ...string) []string {
	out := make([]string, 0, MaxRequirements)
	text := strings.ToLower(strings.Join(texts, " "))
	if text == "" {
		return out
	}

	requirementMu.Lock()
	hits := requirementMatcher.Match([]byte(text))
	requirementMu.Unlock()

	type found struct {
		pos   int
		label string
	}
	matches := make([]found, 0, len(hits))
	for _, idx := range hits {
		t := technologies[idx]
		if pos := wordIndex(text, t.pattern); pos >= 0 {
			matches = append(matches, found{pos: pos, label: t.label})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.label]; ok {
			continue
		}
		seen[m.label] = struct{}{}
		out = append(out, m.label)
		if len(out) == MaxRequirements {
			break
		}
	}
	return out
}

// wordIndex returns the first position of pattern in text that stands as a
// whole word, or -1.
func wordIndex(text, pattern string) int {
	checkLeft := isWordRune(firstRune(pattern))
	checkRight := isWordRune(lastRune(pattern))

	for from := 0; from < len(text); {
		i := strings.Index(text[from:], pattern)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(pattern)

		leftOK := !checkLeft || start == 0 || !isWordRune(lastRune(text[:start]))
		rightOK := !checkRight || end == len(text) || !isWordRune(firstRune(text[end:]))
		if leftOK && rightOK {
			return start
		}
		from = start + 1
	}
	return -1
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
