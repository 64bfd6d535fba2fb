// Package duplicates decides whether a candidate artwork already
// exists in the authoritative store, combining great-circle distance
// with title similarity. Detection is advisory and read-only; the
// batch processor decides what to do with a verdict.
package duplicates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/publicart/massimport/internal/artists"
	"github.com/publicart/massimport/internal/entities"
	"github.com/publicart/massimport/internal/geo"
)

// closeDistanceFraction of the radius counts as "practically the same
// spot" for the distance-only gate.
const closeDistanceFraction = 0.1

// Index is the remote store's nearby-records query.
type Index interface {
	NearbyRecords(ctx context.Context, lat, lon, radiusMeters float64) ([]entities.ExistingRecord, error)
}

// Detector finds and scores existing records near a candidate.
type Detector struct {
	index     Index
	radius    float64
	threshold float64
}

// NewDetector validates the tuning parameters once at startup; a
// non-positive radius or an out-of-range threshold is a configuration
// error, not a per-record condition.
func NewDetector(index Index, radiusMeters, similarityThreshold float64) (*Detector, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("duplicate detection radius must be positive, got %f", radiusMeters)
	}
	if similarityThreshold <= 0 || similarityThreshold > 1 {
		return nil, fmt.Errorf("title similarity threshold must be in (0,1], got %f", similarityThreshold)
	}
	return &Detector{index: index, radius: radiusMeters, threshold: similarityThreshold}, nil
}

// Check queries existing records within the configured radius and
// scores them against the candidate. The two signals gate
// independently: a title similarity at or above the threshold flags,
// and so does a near-identical location with blank or equal titles.
// Candidates are retained on the verdict either way.
func (d *Detector) Check(ctx context.Context, rec entities.CanonicalRecord) (entities.DuplicateVerdict, error) {
	verdict := entities.DuplicateVerdict{}

	existing, err := d.index.NearbyRecords(ctx, rec.Lat, rec.Lon, d.radius)
	if err != nil {
		return verdict, fmt.Errorf("nearby query for %s: %w", rec.ExternalID, err)
	}

	normTitle := artists.Normalize(rec.Title)

	for _, ex := range existing {
		dist := geo.Distance(rec.Lat, rec.Lon, ex.Lat, ex.Lon)
		if dist > d.radius {
			// the server may over-fetch; enforce the radius here
			continue
		}
		verdict.Candidates = append(verdict.Candidates, entities.DuplicateCandidate{
			ID:              ex.ID,
			Title:           ex.Title,
			Lat:             ex.Lat,
			Lon:             ex.Lon,
			DistanceMeters:  dist,
			TitleSimilarity: TitleSimilarity(rec.Title, ex.Title),
		})
	}

	sort.SliceStable(verdict.Candidates, func(i, j int) bool {
		a, b := verdict.Candidates[i], verdict.Candidates[j]
		if a.TitleSimilarity != b.TitleSimilarity {
			return a.TitleSimilarity > b.TitleSimilarity
		}
		return a.DistanceMeters < b.DistanceMeters
	})

	for i := range verdict.Candidates {
		c := &verdict.Candidates[i]

		titleHit := c.TitleSimilarity >= d.threshold
		exNorm := artists.Normalize(c.Title)
		distanceHit := c.DistanceMeters <= d.radius*closeDistanceFraction &&
			(normTitle == "" || exNorm == "" || normTitle == exNorm)

		switch {
		case titleHit && distanceHit:
			c.Reason = fmt.Sprintf("title similarity %.2f >= %.2f and only %.0fm apart", c.TitleSimilarity, d.threshold, c.DistanceMeters)
		case titleHit:
			c.Reason = fmt.Sprintf("title similarity %.2f >= %.2f within %.0fm", c.TitleSimilarity, d.threshold, c.DistanceMeters)
		case distanceHit:
			c.Reason = fmt.Sprintf("existing record only %.0fm away with no distinguishing title", c.DistanceMeters)
		default:
			continue
		}

		if !verdict.IsDuplicate {
			verdict.IsDuplicate = true
			verdict.BestMatch = c
			verdict.Reason = c.Reason
		}
	}

	return verdict, nil
}

// TitleSimilarity scores two titles in [0,1] using the Dice
// coefficient of their normalized token sets. A blank title on either
// side scores zero; blank-title proximity is the distance gate's job.
func TitleSimilarity(a, b string) float64 {
	na, nb := artists.Normalize(a), artists.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)
	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}

func tokenSet(normalized string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range strings.Fields(normalized) {
		set[t] = struct{}{}
	}
	return set
}
