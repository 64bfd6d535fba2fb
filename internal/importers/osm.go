package importers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/publicart/massimport/internal/entities"
)

func init() {
	Register(&OSMAdapter{})
}

// OSMAdapter maps OpenStreetMap Overpass JSON exports of
// tourism=artwork nodes.
type OSMAdapter struct{}

// osmExport matches the Overpass API JSON output shape.
type osmExport struct {
	Elements []osmElement `json:"elements"`
}

type osmElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

func (a *OSMAdapter) Name() string { return "osm" }

func (a *OSMAdapter) Description() string {
	return "OpenStreetMap Overpass JSON export (tourism=artwork nodes)"
}

func (a *OSMAdapter) Map(data []byte) (*MapResult, error) {
	var export osmExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse OSM export: %w", err)
	}

	result := &MapResult{}
	for _, el := range export.Elements {
		if el.Type != "node" {
			continue
		}
		mapped := entities.MappedRecord{Record: a.mapNode(el)}
		if el.Tags == nil {
			mapped.MapError = fmt.Sprintf("node %d has no tags", el.ID)
		}
		result.Records = append(result.Records, mapped)
	}
	return result, nil
}

func (a *OSMAdapter) mapNode(el osmElement) entities.CanonicalRecord {
	rec := entities.CanonicalRecord{
		ExternalID: fmt.Sprintf("osm-node-%d", el.ID),
		Lat:        el.Lat,
		Lon:        el.Lon,
		Title:      el.Tags["name"],
		Source:     "osm",
		Tags:       map[string]string{"source": "osm"},
	}

	if artistName := el.Tags["artist_name"]; artistName != "" {
		// OSM separates multiple values with semicolons
		for _, name := range strings.Split(artistName, ";") {
			if name = strings.TrimSpace(name); name != "" {
				rec.ArtistNames = append(rec.ArtistNames, name)
			}
		}
	}

	for _, key := range []string{"artwork_type", "material", "start_date", "wikidata", "website"} {
		if v := el.Tags[key]; v != "" {
			rec.Tags[key] = v
		}
	}

	if image := el.Tags["image"]; image != "" {
		rec.PhotoURLs = append(rec.PhotoURLs, image)
	}

	return rec
}
