package experience

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// QueryKind classifies a locator query by pattern precedence.
type QueryKind string

const (
	QueryExactDate   QueryKind = "exact-date"
	QueryPartialDate QueryKind = "partial-date"
	QuerySlugKeyword QueryKind = "slug-keyword"
	QueryFreeText    QueryKind = "free-text"
)

// Query is a parsed locator query.
type Query struct {
	Kind     QueryKind
	Raw      string
	Year     int
	Month    int // 0 when not given
	Day      int // 0 when not given
	Keyword  string
	Keywords []string
}

var (
	exactDateQuery   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	partialDateQuery = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?$`)
	slugKeywordQuery = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ParseQuery classifies input as exact date > partial date > slug keyword >
// free text, in that precedence.
func ParseQuery(raw string) Query {
	trimmed := strings.TrimSpace(raw)
	query := Query{Raw: trimmed}

	if m := exactDateQuery.FindStringSubmatch(trimmed); m != nil {
		query.Kind = QueryExactDate
		query.Year, _ = strconv.Atoi(m[1])
		query.Month, _ = strconv.Atoi(m[2])
		query.Day, _ = strconv.Atoi(m[3])
		return query
	}

	if m := partialDateQuery.FindStringSubmatch(trimmed); m != nil {
		query.Kind = QueryPartialDate
		query.Year, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			query.Month, _ = strconv.Atoi(m[2])
		}
		return query
	}

	if slugKeywordQuery.MatchString(trimmed) {
		query.Kind = QuerySlugKeyword
		query.Keyword = trimmed
		return query
	}

	query.Kind = QueryFreeText
	for _, word := range strings.Fields(strings.ToLower(trimmed)) {
		query.Keywords = append(query.Keywords, word)
	}
	return query
}

// Match is one scored search result.
type Match struct {
	Experience *Experience
	Score      float64
}

const (
	// minMatchScore discards weak matches from search results.
	minMatchScore = 0.3
	// scoreLeadThreshold is the decisiveness margin: the top result is
	// returned alone only when it leads the runner-up by more than this.
	scoreLeadThreshold = 0.2
)

// Search scores every experience against the query and returns matches
// at or above the minimum score, best first.
func (r *Repository) Search(raw string) ([]Match, error) {
	experiences, err := r.List()
	if err != nil {
		return nil, err
	}

	query := ParseQuery(raw)

	var matches []Match
	for _, exp := range experiences {
		score := scoreExperience(query, exp)
		if score >= minMatchScore {
			matches = append(matches, Match{Experience: exp, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Experience.Name > matches[j].Experience.Name
	})

	return matches, nil
}

// FindOne resolves a query to exactly one experience. An exact directory
// name match bypasses scoring entirely. No match is a NotFoundError
// listing everything available; an indecisive score spread is an
// AmbiguousMatchError listing the contenders.
func (r *Repository) FindOne(raw string) (*Experience, error) {
	trimmed := strings.TrimSpace(raw)

	if ValidateName(trimmed) == nil {
		exp, err := r.Get(trimmed)
		if err != nil {
			return nil, err
		}
		if exp != nil {
			return exp, nil
		}
	}

	matches, err := r.Search(trimmed)
	if err != nil {
		return nil, err
	}

	switch {
	case len(matches) == 0:
		names, err := r.names()
		if err != nil {
			return nil, err
		}
		return nil, &NotFoundError{Name: trimmed, Available: names}
	case len(matches) == 1:
		return matches[0].Experience, nil
	case matches[0].Score-matches[1].Score > scoreLeadThreshold:
		return matches[0].Experience, nil
	}

	candidates := make([]Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = Candidate{Name: m.Experience.Name, Score: m.Score}
	}
	return nil, &AmbiguousMatchError{Query: trimmed, Candidates: candidates}
}

func scoreExperience(query Query, exp *Experience) float64 {
	switch query.Kind {
	case QueryExactDate:
		if exp.Date.Year() == query.Year &&
			int(exp.Date.Month()) == query.Month &&
			exp.Date.Day() == query.Day {
			return 1.0
		}
		return 0

	case QueryPartialDate:
		if exp.Date.Year() != query.Year {
			return 0
		}
		if query.Month > 0 {
			if int(exp.Date.Month()) == query.Month {
				return 0.8
			}
			return 0
		}
		return 0.6

	case QuerySlugKeyword:
		switch {
		case exp.Slug == query.Keyword:
			return 1.0
		case strings.Contains(exp.Slug, query.Keyword):
			return 0.9
		case strings.Contains(exp.Name, query.Keyword):
			return 0.7
		}
		return 0

	case QueryFreeText:
		if len(query.Keywords) == 0 {
			return 0
		}
		name := strings.ToLower(exp.Name)
		found := 0
		for _, keyword := range query.Keywords {
			if strings.Contains(name, keyword) {
				found++
			}
		}
		if found == 0 {
			return 0
		}
		fraction := float64(found) / float64(len(query.Keywords))
		return 0.4 + 0.4*fraction
	}

	return 0
}
