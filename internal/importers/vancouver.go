package importers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/publicart/massimport/internal/artists"
	"github.com/publicart/massimport/internal/entities"
)

func init() {
	Register(&VancouverAdapter{})
}

// VancouverAdapter maps the City of Vancouver public-art catalog,
// which ships artworks and a separate artist table in one export.
type VancouverAdapter struct{}

type vancouverExport struct {
	Artworks []vancouverArtwork `json:"artworks"`
	Artists  []vancouverArtist  `json:"artists"`
}

type vancouverArtwork struct {
	RegistryID       int64    `json:"registryid"`
	Title            string   `json:"title_of_work"`
	ArtistIDs        []string `json:"artists"`
	SiteName         string   `json:"sitename"`
	SiteAddress      string   `json:"siteaddress"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	PrimaryMaterial  string   `json:"primarymaterial"`
	YearOfInstall    string   `json:"yearofinstallation"`
	Description      string   `json:"descriptionofwork"`
	PhotoURL         string   `json:"photourl"`
	URL              string   `json:"url"`
	GeoPoint         *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geo_point_2d"`
}

type vancouverArtist struct {
	ArtistID  int64  `json:"artistid"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Country   string `json:"country"`
	Biography string `json:"biography"`
	Website   string `json:"website"`
	Photo     string `json:"photo"`
}

func (a *VancouverAdapter) Name() string { return "vancouver" }

func (a *VancouverAdapter) Description() string {
	return "City of Vancouver public-art open-data catalog"
}

func (a *VancouverAdapter) Map(data []byte) (*MapResult, error) {
	var export vancouverExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse Vancouver catalog: %w", err)
	}

	artistByID := make(map[string]vancouverArtist, len(export.Artists))
	result := &MapResult{}
	for _, va := range export.Artists {
		artistByID[strconv.FormatInt(va.ArtistID, 10)] = va
		result.Artists = append(result.Artists, artists.SourceArtist{
			ExternalID: strconv.FormatInt(va.ArtistID, 10),
			FirstName:  va.FirstName,
			LastName:   va.LastName,
			Country:    va.Country,
			Biography:  va.Biography,
			Website:    va.Website,
			PhotoURL:   va.Photo,
		})
	}

	for _, aw := range export.Artworks {
		mapped := entities.MappedRecord{Record: a.mapArtwork(aw, artistByID)}
		if aw.GeoPoint == nil {
			mapped.MapError = fmt.Sprintf("artwork %d has no coordinates", aw.RegistryID)
		}
		result.Records = append(result.Records, mapped)
	}
	return result, nil
}

func (a *VancouverAdapter) mapArtwork(aw vancouverArtwork, artistByID map[string]vancouverArtist) entities.CanonicalRecord {
	rec := entities.CanonicalRecord{
		ExternalID: fmt.Sprintf("vancouver-%d", aw.RegistryID),
		Title:      aw.Title,
		Source:     "vancouver",
		Tags:       map[string]string{"source": "vancouver"},
	}
	if aw.GeoPoint != nil {
		rec.Lat = aw.GeoPoint.Lat
		rec.Lon = aw.GeoPoint.Lon
	}

	for _, id := range aw.ArtistIDs {
		if va, ok := artistByID[id]; ok {
			name := artists.SourceArtist{FirstName: va.FirstName, LastName: va.LastName}.DisplayName()
			if name != "" {
				rec.ArtistNames = append(rec.ArtistNames, name)
			}
		}
	}

	set := func(key, value string) {
		if value != "" {
			rec.Tags[key] = value
		}
	}
	set("site_name", aw.SiteName)
	set("site_address", aw.SiteAddress)
	set("artwork_type", aw.Type)
	set("status", aw.Status)
	set("material", aw.PrimaryMaterial)
	set("year_of_installation", aw.YearOfInstall)
	set("description", aw.Description)
	set("url", aw.URL)

	if aw.PhotoURL != "" {
		rec.PhotoURLs = append(rec.PhotoURLs, aw.PhotoURL)
	}

	return rec
}
