// Package resolve turns a user-supplied node reference (an id or a name) into a node id.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/backoffice/backoffice-cli/internal/api"
)

// Candidate is a node that a reference may refer to.
type Candidate struct {
	ID   int
	Name string
	Path string
}

// Match is a ranked candidate.
type Match struct {
	Candidate
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty node reference")
	ErrNoMatch    = errors.New("no matching node")
)

// AmbiguousError lists the candidates that matched a name equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous node %q, use an id:", e.Query)
	for _, m := range e.Matches {
		_, _ = fmt.Fprintf(&b, "\n  %d: %s", m.ID, m.Name)
		if m.Path != "" {
			_, _ = fmt.Fprintf(&b, " (%s)", m.Path)
		}
	}
	return b.String()
}

type candidateNames []Candidate

func (s candidateNames) String(i int) string { return strings.ToLower(s[i].Name) }

func (s candidateNames) Len() int { return len(s) }

// Best picks the candidate for query. An exact case-insensitive name wins; otherwise
// the top fuzzy score wins unless two candidates tie, which is an *AmbiguousError.
func Best(query string, candidates []Candidate) (Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Candidate{}, ErrEmptyQuery
	}

	var exact []Candidate
	for _, c := range candidates {
		if strings.EqualFold(c.Name, query) {
			exact = append(exact, c)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		matches := make([]Match, len(exact))
		for i, c := range exact {
			matches[i] = Match{Candidate: c}
		}
		return Candidate{}, &AmbiguousError{Query: query, Matches: matches}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), candidateNames(candidates))
	if len(results) == 0 {
		return Candidate{}, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return Candidate{}, &AmbiguousError{Query: query, Matches: toMatches(candidates, results, 5)}
	}
	return candidates[results[0].Index], nil
}

// Rank returns up to limit candidates ordered best first.
func Rank(query string, candidates []Candidate, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	return toMatches(candidates, fuzzy.FindFrom(strings.ToLower(query), candidateNames(candidates)), limit)
}

func toMatches(candidates []Candidate, results fuzzy.Matches, limit int) []Match {
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]Match, len(results))
	for i, r := range results {
		out[i] = Match{Candidate: candidates[r.Index], Score: r.Score}
	}
	return out
}

// EntitySearcher is the part of the entity API used to look names up.
type EntitySearcher interface {
	Search(ctx context.Context, query string, typ api.EntityType, searchFrom string) ([]api.SearchResult, error)
}

// NodeID accepts a numeric id as-is and otherwise searches for the name in the
// tree of type typ.
func NodeID(ctx context.Context, s EntitySearcher, typ api.EntityType, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, ErrEmptyQuery
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	results, err := s.Search(ctx, ref, typ, "")
	if err != nil {
		return 0, fmt.Errorf("search %s %q: %w", strings.ToLower(string(typ)), ref, err)
	}
	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = Candidate{ID: r.ID, Name: r.Name, Path: r.Path}
	}
	c, err := Best(ref, candidates)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// NodeIDs resolves every reference, stopping at the first failure.
func NodeIDs(ctx context.Context, s EntitySearcher, typ api.EntityType, refs []string) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		id, err := NodeID(ctx, s, typ, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
