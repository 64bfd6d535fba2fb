package artists

// SourceArtist is a source dataset's own artist entry, as shipped in
// municipal catalogs alongside the artwork records.
type SourceArtist struct {
	ExternalID string
	FirstName  string
	LastName   string
	Name       string
	Biography  string
	Country    string
	Website    string
	ProfileURL string
	PhotoURL   string
}

// DisplayName prefers the combined name and falls back to
// "First Last".
func (a SourceArtist) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// FindSourceArtist looks up a free-text name in a source artist
// dataset. A match requires both the query's first-name token and its
// last-name token to appear among the entry's first/last name tokens;
// a single-token query that only matches one side returns nothing.
func FindSourceArtist(name string, dataset []SourceArtist) *SourceArtist {
	tokens := Tokens(name)
	if len(tokens) == 0 {
		return nil
	}
	first := tokens[0]
	last := tokens[len(tokens)-1]

	for i := range dataset {
		entry := &dataset[i]
		if containsToken(Tokens(entry.FirstName), first) && containsToken(Tokens(entry.LastName), last) {
			return entry
		}
	}
	return nil
}

// BuildCreatorTags maps the optional source fields into a tag map,
// omitting absent fields entirely. The source name, the original
// un-normalized query name and the external source id are always
// recorded when present, for traceability.
func BuildCreatorTags(name string, src SourceArtist, sourceName string) map[string]string {
	tags := map[string]string{}

	set := func(key, value string) {
		if value != "" {
			tags[key] = value
		}
	}

	set("source", sourceName)
	set("source:name", name)
	set("source:external_id", src.ExternalID)
	set("biography", src.Biography)
	set("country", src.Country)
	set("website", src.Website)
	set("profile_url", src.ProfileURL)
	set("photo_url", src.PhotoURL)

	return tags
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
