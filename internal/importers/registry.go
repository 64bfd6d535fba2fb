package importers

import (
	"fmt"
	"sort"

	"github.com/publicart/massimport/internal/artists"
	"github.com/publicart/massimport/internal/entities"
)

// AllImporters is the special name that makes the orchestration layer
// run every registered adapter against the same input file.
const AllImporters = "all"

// MapResult is what an adapter produces from one input file: the
// mapped records in input order, plus any artist entries the source
// dataset ships alongside its artworks.
type MapResult struct {
	Records []entities.MappedRecord
	Artists []artists.SourceArtist
}

// Adapter maps one external record format into canonical records.
type Adapter interface {
	Name() string
	Description() string
	Map(data []byte) (*MapResult, error)
}

var registry = map[string]Adapter{}

// Register adds an adapter to the registry. Called from adapter init
// functions; a duplicate name is a programming error.
func Register(a Adapter) {
	if _, exists := registry[a.Name()]; exists {
		panic(fmt.Sprintf("importer %q registered twice", a.Name()))
	}
	registry[a.Name()] = a
}

// Get returns the adapter registered under name.
func Get(name string) (Adapter, bool) {
	a, ok := registry[name]
	return a, ok
}

// Names returns all registered importer names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationResult is the outcome of validating an operator-supplied
// importer name.
type ValidationResult struct {
	Valid       bool
	Message     string
	Suggestions []string
}

// Validate checks an importer name before any I/O begins. For an
// unknown name it suggests registered importers within a small edit
// distance of the input.
func Validate(name string) ValidationResult {
	if name == AllImporters {
		return ValidationResult{Valid: true, Message: "runs every registered importer"}
	}
	if a, ok := registry[name]; ok {
		return ValidationResult{Valid: true, Message: a.Description()}
	}

	var suggestions []string
	for _, candidate := range Names() {
		if editDistance(name, candidate) <= 2 {
			suggestions = append(suggestions, candidate)
		}
	}

	return ValidationResult{
		Valid:       false,
		Message:     fmt.Sprintf("unknown importer %q (available: %v)", name, Names()),
		Suggestions: suggestions,
	}
}

// editDistance is the Levenshtein distance between two short names.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
