package importers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/publicart/massimport/internal/entities"
)

func init() {
	Register(&GeoJSONAdapter{})
}

// GeoJSONAdapter maps a generic GeoJSON FeatureCollection of point
// features. It is the fallback for catalogs that publish plain
// GeoJSON without a dedicated adapter.
type GeoJSONAdapter struct{}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	// GeoJSON feature ids may be numbers or strings
	ID         json.RawMessage   `json:"id"`
	Geometry   *geoJSONGeometry  `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (a *GeoJSONAdapter) Name() string { return "geojson" }

func (a *GeoJSONAdapter) Description() string {
	return "generic GeoJSON FeatureCollection of point features"
}

func (a *GeoJSONAdapter) Map(data []byte) (*MapResult, error) {
	var collection geoJSONCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected a FeatureCollection, got %q", collection.Type)
	}

	result := &MapResult{}
	for i, f := range collection.Features {
		result.Records = append(result.Records, a.mapFeature(i, f))
	}
	return result, nil
}

func (a *GeoJSONAdapter) mapFeature(index int, f geoJSONFeature) entities.MappedRecord {
	id := strings.Trim(string(f.ID), `"`)
	if id == "" || id == "null" {
		id = fmt.Sprintf("%d", index)
	}

	rec := entities.CanonicalRecord{
		ExternalID: "geojson-" + id,
		Source:     "geojson",
		Tags:       map[string]string{"source": "geojson"},
	}

	if f.Geometry == nil || f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return entities.MappedRecord{
			Record:   rec,
			MapError: fmt.Sprintf("feature %s has no point geometry", id),
		}
	}
	// GeoJSON point order is [lon, lat]
	rec.Lon = f.Geometry.Coordinates[0]
	rec.Lat = f.Geometry.Coordinates[1]

	for _, key := range []string{"title", "name"} {
		if v := f.Properties[key]; v != "" {
			rec.Title = v
			break
		}
	}
	for _, key := range []string{"artist", "artist_name", "creator"} {
		if v := f.Properties[key]; v != "" {
			for _, name := range strings.Split(v, ";") {
				if name = strings.TrimSpace(name); name != "" {
					rec.ArtistNames = append(rec.ArtistNames, name)
				}
			}
			break
		}
	}
	if v := f.Properties["image"]; v != "" {
		rec.PhotoURLs = append(rec.PhotoURLs, v)
	}
	for k, v := range f.Properties {
		switch k {
		case "title", "name", "artist", "artist_name", "creator", "image":
		default:
			if v != "" {
				rec.Tags[k] = v
			}
		}
	}

	return entities.MappedRecord{Record: rec}
}
