// Package artists normalizes free-text artist names and matches them
// against existing creator records, or creates new creators from
// source-specific metadata.
package artists

import (
	"context"
	"fmt"
	"sort"

	"github.com/publicart/massimport/internal/entities"
)

// ConfidenceFloor is the minimum token-match score a candidate must
// reach to survive. Fixed for the whole run, never tuned per call.
const ConfidenceFloor = 0.7

// Directory is the remote creator store the matcher queries and
// creates against.
type Directory interface {
	SearchCreators(ctx context.Context, query string) ([]entities.Creator, error)
	CreateCreator(ctx context.Context, name string, tags map[string]string) (string, error)
}

// Matcher resolves artist names against a creator directory.
type Matcher struct {
	dir Directory
}

func NewMatcher(dir Directory) *Matcher {
	return &Matcher{dir: dir}
}

// FindMatchingArtists looks up creators matching the given free-text
// name. Exact matches (on the normalized form) win; with no exact match
// a token-overlap pass scores the remaining candidates. Multiple
// equally exact matches are reported as ambiguous and left for the
// caller to resolve.
func (m *Matcher) FindMatchingArtists(ctx context.Context, name string) (entities.ArtistMatchResult, error) {
	query := Normalize(name)
	result := entities.ArtistMatchResult{Query: query}

	if query == "" {
		return result, nil
	}

	creators, err := m.dir.SearchCreators(ctx, query)
	if err != nil {
		return result, fmt.Errorf("creator search for %q: %w", name, err)
	}

	var exact []entities.ArtistCandidate
	for _, c := range creators {
		if Normalize(c.Name) == query {
			exact = append(exact, entities.ArtistCandidate{
				CreatorID: c.ID,
				Name:      c.Name,
				Score:     1.0,
				MatchType: entities.MatchTypeExact,
			})
		}
	}

	if len(exact) > 0 {
		result.Candidates = exact
		result.IsExact = true
		result.IsAmbiguous = len(exact) > 1
		result.BestMatch = &exact[0]
		return result, nil
	}

	queryTokens := Tokens(name)
	var scored []entities.ArtistCandidate
	for _, c := range creators {
		score := tokenOverlap(queryTokens, Tokens(c.Name))
		if score < ConfidenceFloor {
			continue
		}
		scored = append(scored, entities.ArtistCandidate{
			CreatorID: c.ID,
			Name:      c.Name,
			Score:     score,
			MatchType: entities.MatchTypeToken,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	result.Candidates = scored
	if len(scored) > 0 {
		result.BestMatch = &scored[0]
	}
	return result, nil
}

// CreateArtistFromSourceData creates a new creator from a source
// dataset entry, carrying over whatever metadata the source provides.
func (m *Matcher) CreateArtistFromSourceData(ctx context.Context, name string, src SourceArtist, sourceName string) (string, error) {
	tags := BuildCreatorTags(name, src, sourceName)
	id, err := m.dir.CreateCreator(ctx, name, tags)
	if err != nil {
		return "", fmt.Errorf("create creator %q: %w", name, err)
	}
	return id, nil
}

// tokenOverlap returns the Sørensen–Dice coefficient of two token
// sets, in [0,1].
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}
