package entities

import (
	"time"

	"github.com/google/uuid"
)

// BatchResult is one record's outcome. It is created once per processed
// record and never mutated afterwards.
type BatchResult struct {
	Success          bool                `json:"success"`
	SkippedDuplicate bool                `json:"skipped_duplicate"`
	SubmissionID     string              `json:"submission_id,omitempty"`
	ExternalID       string              `json:"external_id"`
	Title            string              `json:"title"`
	Error            string              `json:"error,omitempty"`
	Duplicate        *DuplicateVerdict   `json:"duplicate,omitempty"`
	ArtistMatches    []ArtistMatchResult `json:"artist_matches,omitempty"`
	LinkedCreators   []string            `json:"linked_creators,omitempty"`
	Lat              float64             `json:"lat"`
	Lon              float64             `json:"lon"`
	Tags             map[string]string   `json:"tags,omitempty"`
	PhotosAttempted  int                 `json:"photos_attempted"`
	PhotosSucceeded  int                 `json:"photos_succeeded"`
}

// Batch groups the results of one fixed-size chunk of records.
type Batch struct {
	Index   int           `json:"index"`
	Results []BatchResult `json:"results"`
}

// SessionSummary holds the running counters for a processing session.
type SessionSummary struct {
	TotalRecords      int `json:"total_records"`
	SuccessfulImports int `json:"successful_imports"`
	FailedImports     int `json:"failed_imports"`
	SkippedDuplicates int `json:"skipped_duplicates"`
	TotalPhotos       int `json:"total_photos"`
	SuccessfulPhotos  int `json:"successful_photos"`
}

// ProcessingSession accumulates the results of one processor
// invocation. It is written by a single goroutine and discarded once
// the reporting layer has serialized it.
type ProcessingSession struct {
	ID        string         `json:"id"`
	Importer  string         `json:"importer"`
	Source    string         `json:"source"`
	DryRun    bool           `json:"dry_run"`
	Cancelled bool           `json:"cancelled"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Batches   []Batch        `json:"batches"`
	Summary   SessionSummary `json:"summary"`
}

// NewProcessingSession starts a session for one run.
func NewProcessingSession(importer, source string, dryRun bool) *ProcessingSession {
	return &ProcessingSession{
		ID:        uuid.New().String(),
		Importer:  importer,
		Source:    source,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

// AppendBatch records a completed batch and folds its results into the
// summary counters.
func (s *ProcessingSession) AppendBatch(b Batch) {
	s.Batches = append(s.Batches, b)
	for _, r := range b.Results {
		switch {
		case r.SkippedDuplicate:
			s.Summary.SkippedDuplicates++
		case r.Success:
			s.Summary.SuccessfulImports++
		default:
			s.Summary.FailedImports++
		}
		s.Summary.TotalPhotos += r.PhotosAttempted
		s.Summary.SuccessfulPhotos += r.PhotosSucceeded
	}
}

// Finalize sets the end timestamp. Safe to call once the run stops for
// any reason, including cancellation.
func (s *ProcessingSession) Finalize() {
	s.EndedAt = time.Now().UTC()
}

// Results flattens the batches in processing order.
func (s *ProcessingSession) Results() []BatchResult {
	var out []BatchResult
	for _, b := range s.Batches {
		out = append(out, b.Results...)
	}
	return out
}
