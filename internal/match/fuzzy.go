package match

import (
	"sort"
	"strings"
)

// DefaultThreshold is the minimum similarity score a candidate must reach.
const DefaultThreshold = 0.75

// ScorerVersion identifies the scoring function. Changing the weights or the
// score composition is a behavioral change and must bump this version.
const ScorerVersion = "composite/1"

// Scoring weights for the composite scorer. Fixed: see ScorerVersion.
const (
	tokenOverlapWeight = 0.45
	editRatioWeight    = 0.45
	exactBonus         = 0.10
)

// CatalogEntry is one entry of the catalog's name universe.
type CatalogEntry struct {
	// Name is the display name, may be empty when only the token is known
	Name string
	// Token is the catalog's unique identifier for the entry
	Token string
}

// Candidate is a catalog entry ranked against a query name.
type Candidate struct {
	// CatalogName is the entry's display name
	CatalogName string
	// Token is the catalog identifier
	Token string
	// Score is the similarity in [0,1]
	Score float64

	// editDistance breaks ties between equal scores
	editDistance int
}

// Scorer computes similarity between two normalized names.
// Implementations must be pure functions of their inputs.
type Scorer interface {
	Score(query, candidate string) float64
}

// CompositeScorer combines token-set overlap, whole-string edit-distance
// ratio, and an exact-match bonus.
type CompositeScorer struct{}

// Score implements Scorer.
func (CompositeScorer) Score(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	score := tokenOverlapWeight*tokenOverlap(query, candidate) +
		editRatioWeight*editRatio(query, candidate)
	if query == candidate {
		score += exactBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// TokenScorer is the simpler fallback backend: token-set overlap only.
// It trades ranking quality for speed on very large catalogs.
type TokenScorer struct{}

// Score implements Scorer.
func (TokenScorer) Score(query, candidate string) float64 {
	if query == candidate {
		return 1
	}
	return tokenOverlap(query, candidate)
}

// Matcher ranks catalog entries by similarity to an application name.
type Matcher struct {
	norm      *Normalizer
	scorer    Scorer
	threshold float64
}

// MatcherOption is a functional option for configuring Matcher
type MatcherOption func(*Matcher)

// WithScorer selects the scoring backend.
func WithScorer(s Scorer) MatcherOption {
	return func(m *Matcher) {
		m.scorer = s
	}
}

// WithThreshold sets the minimum score for a candidate to be kept.
func WithThreshold(t float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = t
	}
}

// NewMatcher creates a Matcher over the given normalizer.
// The composite scorer and DefaultThreshold apply unless overridden.
func NewMatcher(norm *Normalizer, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		norm:      norm,
		scorer:    CompositeScorer{},
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindCandidates scores every catalog entry against the name and returns the
// ones at or above the threshold, best first. Ties break by smaller edit
// distance, then lexically by token. The result is computed eagerly.
func (m *Matcher) FindCandidates(name string, catalog []CatalogEntry) []Candidate {
	query := m.norm.Normalize(name)
	if query == "" {
		return nil
	}

	var out []Candidate
	for _, entry := range catalog {
		display := entry.Name
		if display == "" {
			display = entry.Token
		}
		normalized := m.norm.Normalize(display)
		score := m.scorer.Score(query, normalized)
		if score < m.threshold {
			continue
		}
		out = append(out, Candidate{
			CatalogName:  display,
			Token:        entry.Token,
			Score:        score,
			editDistance: levenshtein(query, normalized),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].editDistance != out[j].editDistance {
			return out[i].editDistance < out[j].editDistance
		}
		return out[i].Token < out[j].Token
	})

	return out
}

// Normalize exposes the matcher's normalizer so callers compare names in
// the same canonical space the scores are computed in.
func (m *Matcher) Normalize(name string) string {
	return m.norm.Normalize(name)
}

// Best returns the top candidate for a name, or false when nothing reaches
// the threshold.
func (m *Matcher) Best(name string, catalog []CatalogEntry) (Candidate, bool) {
	candidates := m.FindCandidates(name, catalog)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// tokenOverlap is the Jaccard ratio over word sets.
func tokenOverlap(a, b string) float64 {
	as := strings.Fields(a)
	bs := strings.Fields(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(as))
	for _, t := range as {
		seen[t] = true
	}

	union := len(seen)
	shared := 0
	counted := make(map[string]bool, len(bs))
	for _, t := range bs {
		if counted[t] {
			continue
		}
		counted[t] = true
		if seen[t] {
			shared++
		} else {
			union++
		}
	}

	return float64(shared) / float64(union)
}

// editRatio maps Levenshtein distance into a [0,1] similarity.
func editRatio(a, b string) float64 {
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance over runes with a two-row table.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
