// Package importers provides the pluggable per-source adapters that
// turn external public-art datasets into the pipeline's canonical
// input shape.
//
// # Architecture
//
// Raw file bytes → Adapter.Map → MapResult (canonical records plus any
// source-supplied artist entries) → batch processor.
//
// Adapters register themselves in an init-time registry keyed by
// source name, so an unknown importer name is rejected before any I/O
// begins. The special name "all" is resolved by the CLI layer into one
// independent run per registered adapter.
//
// # Adding a New Import Source
//
// To add support for a new dataset (e.g. a city's open-data catalog):
//
//  1. Create a new file: mycity.go
//
//  2. Define the source-specific payload structs with json tags
//     matching the upstream export format.
//
//  3. Implement the Adapter interface. Per-record mapping failures go
//     into MappedRecord.MapError rather than aborting the file; only
//     an unparseable payload is a file-level error.
//
//  4. Register the adapter:
//
//     func init() { Register(&MyCityAdapter{}) }
//
// # Existing Adapters
//
//   - OSMAdapter: OpenStreetMap Overpass JSON exports ("osm")
//   - VancouverAdapter: City of Vancouver public-art catalog ("vancouver")
//   - GeoJSONAdapter: generic GeoJSON FeatureCollection ("geojson")
package importers
