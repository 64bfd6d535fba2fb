package entities

// DuplicateCandidate is an existing record found within the search
// radius, with its computed distance and title similarity.
type DuplicateCandidate struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	DistanceMeters  float64 `json:"distance_meters"`
	TitleSimilarity float64 `json:"title_similarity"`
	Reason          string  `json:"reason,omitempty"`
}

// DuplicateVerdict is the outcome of duplicate detection for one
// record. Candidates are retained even on a not-duplicate verdict so
// reports can show near misses.
type DuplicateVerdict struct {
	IsDuplicate bool                 `json:"is_duplicate"`
	Candidates  []DuplicateCandidate `json:"candidates,omitempty"`
	BestMatch   *DuplicateCandidate  `json:"best_match,omitempty"`
	Reason      string               `json:"reason,omitempty"`
}

// Artist match types.
const (
	MatchTypeExact = "exact"
	MatchTypeToken = "token"
)

// ArtistCandidate is one scored creator returned by artist matching.
type ArtistCandidate struct {
	CreatorID string  `json:"creator_id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	MatchType string  `json:"match_type"`
}

// ArtistMatchResult describes how a free-text artist name resolved
// against existing creators. Ambiguity is surfaced, never auto-resolved.
type ArtistMatchResult struct {
	Query       string            `json:"query"`
	Candidates  []ArtistCandidate `json:"candidates,omitempty"`
	IsExact     bool              `json:"is_exact"`
	IsAmbiguous bool              `json:"is_ambiguous"`
	BestMatch   *ArtistCandidate  `json:"best_match,omitempty"`
}

// Creator is an existing creator record in the remote store.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
