package entities

import "fmt"

// CanonicalRecord is the importer-neutral shape of one candidate artwork.
// Adapters produce it once; nothing downstream mutates it.
type CanonicalRecord struct {
	ExternalID  string            `json:"external_id"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	Title       string            `json:"title"`
	ArtistNames []string          `json:"artist_names,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	PhotoURLs   []string          `json:"photo_urls,omitempty"`
	Source      string            `json:"source"`
}

// Validate reports whether the record is structurally sound enough to
// submit. Title is optional (plenty of public art is untitled), but an
// external id, a source name and in-range coordinates are required.
func (r CanonicalRecord) Validate() error {
	if r.ExternalID == "" {
		return fmt.Errorf("record has no external id")
	}
	if r.Source == "" {
		return fmt.Errorf("record %s has no source", r.ExternalID)
	}
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("record %s: latitude %f out of range", r.ExternalID, r.Lat)
	}
	if r.Lon < -180 || r.Lon > 180 {
		return fmt.Errorf("record %s: longitude %f out of range", r.ExternalID, r.Lon)
	}
	return nil
}

// MappedRecord pairs a canonical record with the mapping error that
// produced it, if any. A mapping failure still occupies a slot in the
// batch so reports line up with the input file.
type MappedRecord struct {
	Record   CanonicalRecord
	MapError string
}

// ExistingRecord is an already-persisted artwork as returned by the
// remote store's nearby query.
type ExistingRecord struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}
