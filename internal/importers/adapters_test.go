package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osmSample = `{
  "elements": [
    {
      "type": "node",
      "id": 123456,
      "lat": 49.2827,
      "lon": -123.1207,
      "tags": {
        "tourism": "artwork",
        "name": "Digital Orca",
        "artist_name": "Douglas Coupland",
        "artwork_type": "sculpture",
        "material": "aluminium",
        "image": "https://example.org/orca.jpg"
      }
    },
    {
      "type": "node",
      "id": 654321,
      "lat": 49.29,
      "lon": -123.13,
      "tags": {
        "tourism": "artwork",
        "artist_name": "A; B ;"
      }
    },
    {"type": "way", "id": 1},
    {"type": "node", "id": 777, "lat": 49.0, "lon": -123.0}
  ]
}`

func TestOSMAdapter_Map(t *testing.T) {
	a := &OSMAdapter{}
	result, err := a.Map([]byte(osmSample))
	require.NoError(t, err)
	require.Len(t, result.Records, 3) // the way is skipped
	assert.Empty(t, result.Artists)

	first := result.Records[0]
	assert.Empty(t, first.MapError)
	assert.Equal(t, "osm-node-123456", first.Record.ExternalID)
	assert.Equal(t, "Digital Orca", first.Record.Title)
	assert.Equal(t, []string{"Douglas Coupland"}, first.Record.ArtistNames)
	assert.Equal(t, "sculpture", first.Record.Tags["artwork_type"])
	assert.Equal(t, []string{"https://example.org/orca.jpg"}, first.Record.PhotoURLs)
	assert.Equal(t, 49.2827, first.Record.Lat)

	// semicolon-separated artists are split and trimmed
	assert.Equal(t, []string{"A", "B"}, result.Records[1].Record.ArtistNames)

	// a node without tags maps, but carries a mapping error
	assert.NotEmpty(t, result.Records[2].MapError)
}

func TestOSMAdapter_MapMalformed(t *testing.T) {
	a := &OSMAdapter{}
	_, err := a.Map([]byte("{not json"))
	assert.Error(t, err)
}

const vancouverSample = `{
  "artworks": [
    {
      "registryid": 10,
      "title_of_work": "The Birds",
      "artists": ["7"],
      "sitename": "Olympic Village Square",
      "type": "Sculpture",
      "status": "In place",
      "primarymaterial": "Styrofoam, resin",
      "photourl": "https://example.org/birds.jpg",
      "geo_point_2d": {"lat": 49.2722, "lon": -123.1068}
    },
    {
      "registryid": 11,
      "title_of_work": "Missing Coordinates",
      "artists": []
    }
  ],
  "artists": [
    {
      "artistid": 7,
      "firstname": "Myfanwy",
      "lastname": "MacLeod",
      "country": "Canada",
      "biography": "Sculptor."
    }
  ]
}`

func TestVancouverAdapter_Map(t *testing.T) {
	a := &VancouverAdapter{}
	result, err := a.Map([]byte(vancouverSample))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.Len(t, result.Artists, 1)

	assert.Equal(t, "7", result.Artists[0].ExternalID)
	assert.Equal(t, "Myfanwy", result.Artists[0].FirstName)

	first := result.Records[0]
	assert.Empty(t, first.MapError)
	assert.Equal(t, "vancouver-10", first.Record.ExternalID)
	assert.Equal(t, "The Birds", first.Record.Title)
	assert.Equal(t, []string{"Myfanwy MacLeod"}, first.Record.ArtistNames)
	assert.Equal(t, "Olympic Village Square", first.Record.Tags["site_name"])
	assert.Equal(t, 49.2722, first.Record.Lat)

	assert.NotEmpty(t, result.Records[1].MapError)
}

const geojsonSample = `{
  "type": "FeatureCollection",
  "features": [
    {
      "id": "pa-1",
      "geometry": {"type": "Point", "coordinates": [-123.1207, 49.2827]},
      "properties": {
        "title": "Spinning Chandelier",
        "artist": "Rodney Graham",
        "material": "stainless steel",
        "image": "https://example.org/chandelier.jpg"
      }
    },
    {
      "id": 2,
      "geometry": {"type": "LineString", "coordinates": []},
      "properties": {"name": "Not a Point"}
    }
  ]
}`

func TestGeoJSONAdapter_Map(t *testing.T) {
	a := &GeoJSONAdapter{}
	result, err := a.Map([]byte(geojsonSample))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Empty(t, first.MapError)
	assert.Equal(t, "geojson-pa-1", first.Record.ExternalID)
	assert.Equal(t, "Spinning Chandelier", first.Record.Title)
	assert.Equal(t, []string{"Rodney Graham"}, first.Record.ArtistNames)
	// coordinate order flips from GeoJSON's [lon, lat]
	assert.Equal(t, 49.2827, first.Record.Lat)
	assert.Equal(t, -123.1207, first.Record.Lon)
	assert.Equal(t, "stainless steel", first.Record.Tags["material"])

	assert.NotEmpty(t, result.Records[1].MapError)
}

func TestGeoJSONAdapter_RejectsNonCollection(t *testing.T) {
	a := &GeoJSONAdapter{}
	_, err := a.Map([]byte(`{"type": "Feature"}`))
	assert.Error(t, err)
}
