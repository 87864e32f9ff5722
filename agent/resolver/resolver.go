package resolver

import (
	"strconv"
	"strings"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

// Matcher is one resolution heuristic. Matchers receive the reference
// already lowercased and trimmed, and must pick the first qualifying
// candidate in catalog order.
type Matcher interface {
	TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool)
}

// Resolver evaluates its matchers in fixed priority order and stops at the
// first success. The ordering is part of the contract: ordinal words beat
// literal IDs beat attribute matches beat name matches beat bare indexes.
type Resolver struct {
	matchers []Matcher
}

// New returns a resolver with the standard heuristic chain.
func New() *Resolver {
	return &Resolver{
		matchers: []Matcher{
			ordinalMatcher{},
			idMatcher{},
			colorCategoryMatcher{},
			nameTokenMatcher{},
			indexMatcher{},
		},
	}
}

// NewWithMatchers builds a resolver from an explicit chain; used by tests to
// exercise rules in isolation.
func NewWithMatchers(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: matchers}
}

// Resolve maps a free-form phrase to at most one product out of candidates.
func (r *Resolver) Resolve(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	normalized := strings.ToLower(strings.TrimSpace(ref))
	for _, m := range r.matchers {
		if p, ok := m.TryMatch(normalized, candidates); ok {
			return p, true
		}
	}
	return contractx.Product{}, false
}

// ordinalMatcher maps "first".."fourth" (as substrings of the phrase) to a
// position in candidate order. An ordinal past the end of the candidate list
// falls through to later ordinal words, then to the next matcher.
type ordinalMatcher struct{}

var ordinalWords = []struct {
	word string
	idx  int
}{
	{"first", 0},
	{"second", 1},
	{"third", 2},
	{"fourth", 3},
}

func (ordinalMatcher) TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	for _, o := range ordinalWords {
		if strings.Contains(ref, o.word) && o.idx < len(candidates) {
			return candidates[o.idx], true
		}
	}
	return contractx.Product{}, false
}

// idMatcher matches the phrase as a literal product identifier.
type idMatcher struct{}

func (idMatcher) TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	for _, p := range candidates {
		if strings.ToLower(p.ID) == ref {
			return p, true
		}
	}
	return contractx.Product{}, false
}

// colorCategoryMatcher picks a candidate whose color and category both occur
// in the phrase ("black hoodie").
type colorCategoryMatcher struct{}

func (colorCategoryMatcher) TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	for _, p := range candidates {
		if p.Color == "" || p.Category == "" {
			continue
		}
		if strings.Contains(ref, strings.ToLower(p.Color)) && strings.Contains(ref, strings.ToLower(p.Category)) {
			return p, true
		}
	}
	return contractx.Product{}, false
}

// nameTokenMatcher picks a candidate whose name contains every phrase token
// longer than two characters. A phrase with no such tokens vacuously matches
// the first candidate.
type nameTokenMatcher struct{}

func (nameTokenMatcher) TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	tokens := make([]string, 0, 4)
	for _, tok := range strings.Fields(ref) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}

	for _, p := range candidates {
		name := strings.ToLower(p.Name)
		all := true
		for _, tok := range tokens {
			if !strings.Contains(name, tok) {
				all = false
				break
			}
		}
		if all {
			return p, true
		}
	}
	return contractx.Product{}, false
}

// indexMatcher interprets a bare digits-only token as a 1-based candidate
// index. Signed tokens ("+2", "-1") are not indexes.
type indexMatcher struct{}

func (indexMatcher) TryMatch(ref string, candidates []contractx.Product) (contractx.Product, bool) {
	for _, tok := range strings.Fields(ref) {
		if !isDigits(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		idx := n - 1
		if idx >= 0 && idx < len(candidates) {
			return candidates[idx], true
		}
	}
	return contractx.Product{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
