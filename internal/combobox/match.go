package combobox

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Matcher selects candidates for a query. Match returns the indices of the
// matching candidates in ascending order; empty candidates never match.
type Matcher interface {
	Match(candidates []string, query string) []int
}

// SubstringMatcher matches candidates containing the query, ignoring case
type SubstringMatcher struct{}

func (SubstringMatcher) Match(candidates []string, query string) []int {
	q := strings.ToLower(query)
	matches := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(strings.ToLower(c), q) {
			matches = append(matches, i)
		}
	}
	return matches
}

// FuzzyMatcher matches candidates containing the query characters in order,
// not necessarily adjacent. Results keep candidate order, not score order.
type FuzzyMatcher struct{}

func (FuzzyMatcher) Match(candidates []string, query string) []int {
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}

	found := fuzzy.Find(strings.ToLower(query), lowered)
	matches := make([]int, 0, len(found))
	for _, m := range found {
		if candidates[m.Index] == "" {
			continue
		}
		matches = append(matches, m.Index)
	}
	sort.Ints(matches)
	return matches
}

// Matcher names accepted by MatcherByName
const (
	MatcherSubstring = "substring"
	MatcherFuzzy     = "fuzzy"
)

// MatcherByName resolves a configured matcher name; "" means substring
func MatcherByName(name string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MatcherSubstring:
		return SubstringMatcher{}, nil
	case MatcherFuzzy:
		return FuzzyMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q", name)
	}
}
