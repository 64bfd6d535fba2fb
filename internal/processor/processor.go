// Package processor orchestrates the end-to-end flow over a list of
// mapped records: duplicate check, artist resolution, remote
// submission, result aggregation. Processing is single-threaded and
// strictly in input order; the only shared mutable state is the
// ProcessingSession accumulator, written by this one goroutine.
package processor

import (
	"context"
	"fmt"

	"github.com/publicart/massimport/internal/artists"
	"github.com/publicart/massimport/internal/duplicates"
	"github.com/publicart/massimport/internal/entities"
)

// Submitter sends one record to the remote API. The concrete client
// retries transient failures internally with a fixed delay.
type Submitter interface {
	SubmitRecord(ctx context.Context, rec entities.CanonicalRecord, creatorIDs []string) (*SubmissionOutcome, error)
}

// SubmissionOutcome mirrors the API client's answer to a submission.
type SubmissionOutcome struct {
	ID              string
	PhotosSucceeded int
}

// Options controls one processing run.
type Options struct {
	Importer    string
	Source      string
	DryRun      bool
	StopOnError bool
	BatchSize   int
	Offset      int
	Limit       int // 0 means no limit
}

// Processor drives the per-record pipeline.
type Processor struct {
	detector *duplicates.Detector
	matcher  *artists.Matcher
	submit   Submitter
	listener Listener
}

func New(detector *duplicates.Detector, matcher *artists.Matcher, submit Submitter, listener Listener) *Processor {
	if listener == nil {
		listener = NopListener{}
	}
	return &Processor{detector: detector, matcher: matcher, submit: submit, listener: listener}
}

// Process runs the pipeline over the mapped records. Cancellation is
// cooperative: the flag is checked between records, the in-flight
// record finishes, and the session is finalized with whatever results
// exist. Already-submitted records are never retracted. The returned
// session is always non-nil; inspect Cancelled for an interrupted run.
func (p *Processor) Process(ctx context.Context, records []entities.MappedRecord, sourceArtists []artists.SourceArtist, opts Options) *entities.ProcessingSession {
	session := entities.NewProcessingSession(opts.Importer, opts.Source, opts.DryRun)
	defer session.Finalize()

	windowed := window(records, opts.Offset, opts.Limit)
	session.Summary.TotalRecords = len(windowed)

	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	index := opts.Offset
	for start := 0; start < len(windowed); start += batchSize {
		end := start + batchSize
		if end > len(windowed) {
			end = len(windowed)
		}

		batch := entities.Batch{Index: len(session.Batches)}
		stopped := false

		for _, mapped := range windowed[start:end] {
			if ctx.Err() != nil {
				session.Cancelled = true
				stopped = true
				break
			}

			p.listener.RecordStarted(index, mapped.Record)
			result := p.processRecord(ctx, mapped, sourceArtists, opts)
			p.listener.RecordCompleted(index, result)
			batch.Results = append(batch.Results, result)
			index++

			if !result.Success && !result.SkippedDuplicate && opts.StopOnError {
				stopped = true
				break
			}
			if ctx.Err() != nil {
				session.Cancelled = true
				stopped = true
				break
			}
		}

		if len(batch.Results) > 0 {
			session.AppendBatch(batch)
			p.listener.BatchCompleted(batch)
		}
		if stopped {
			break
		}
	}

	return session
}

// processRecord runs one record through mapping-error handling,
// duplicate detection, artist resolution and submission. Every error
// is captured into the result; nothing is thrown past this point.
func (p *Processor) processRecord(ctx context.Context, mapped entities.MappedRecord, sourceArtists []artists.SourceArtist, opts Options) entities.BatchResult {
	rec := mapped.Record
	result := entities.BatchResult{
		ExternalID:      rec.ExternalID,
		Title:           rec.Title,
		Lat:             rec.Lat,
		Lon:             rec.Lon,
		Tags:            rec.Tags,
		PhotosAttempted: len(rec.PhotoURLs),
	}

	if mapped.MapError != "" {
		result.Error = fmt.Sprintf("mapping failed: %s", mapped.MapError)
		return result
	}
	if err := rec.Validate(); err != nil {
		result.Error = fmt.Sprintf("invalid record: %v", err)
		return result
	}

	verdict, err := p.detector.Check(ctx, rec)
	if err != nil {
		result.Error = fmt.Sprintf("duplicate check failed: %v", err)
		return result
	}
	result.Duplicate = &verdict
	if verdict.IsDuplicate {
		result.SkippedDuplicate = true
		return result
	}

	creatorIDs, matches, err := p.resolveArtists(ctx, rec, sourceArtists, opts.DryRun)
	if err != nil {
		result.Error = fmt.Sprintf("artist resolution failed: %v", err)
		return result
	}
	result.ArtistMatches = matches
	result.LinkedCreators = creatorIDs

	if opts.DryRun {
		result.Success = true
		return result
	}

	outcome, err := p.submit.SubmitRecord(ctx, rec, creatorIDs)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.SubmissionID = outcome.ID
	result.PhotosSucceeded = outcome.PhotosSucceeded
	return result
}

// resolveArtists matches each artist name and decides whether the
// record may auto-link or auto-create. A creator is linked only on an
// unambiguous exact match; a new creator is created only when the
// source dataset supplies the artist with an external id and no
// existing creator collides on the normalized name. Ambiguity is
// surfaced in the match results, never auto-resolved.
func (p *Processor) resolveArtists(ctx context.Context, rec entities.CanonicalRecord, sourceArtists []artists.SourceArtist, dryRun bool) ([]string, []entities.ArtistMatchResult, error) {
	var creatorIDs []string
	var matches []entities.ArtistMatchResult

	for _, name := range rec.ArtistNames {
		match, err := p.matcher.FindMatchingArtists(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		matches = append(matches, match)

		switch {
		case match.IsExact && !match.IsAmbiguous:
			creatorIDs = append(creatorIDs, match.BestMatch.CreatorID)

		case !match.IsExact:
			src := artists.FindSourceArtist(name, sourceArtists)
			if src == nil || src.ExternalID == "" || dryRun {
				continue
			}
			id, err := p.matcher.CreateArtistFromSourceData(ctx, name, *src, rec.Source)
			if err != nil {
				return nil, nil, err
			}
			creatorIDs = append(creatorIDs, id)
		}
	}

	return creatorIDs, matches, nil
}

// window applies the optional offset/limit pair before batching. An
// offset beyond the input yields zero records, which is a no-op
// success.
func window(records []entities.MappedRecord, offset, limit int) []entities.MappedRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	out := records[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
