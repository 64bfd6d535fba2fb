// Package reports turns processing sessions into operator-facing
// console summaries and durable JSON/URL-list report files. Every run
// ends with a report, even a cancelled or failed one.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/publicart/massimport/internal/entities"
)

// Report kinds.
const (
	KindImport     = "import"
	KindDryRun     = "dry-run"
	KindValidation = "validation"
)

// Parameters echoes the run configuration into the report so an audit
// trail exists for how each verdict was reached.
type Parameters struct {
	APIEndpoint          string  `json:"api_endpoint"`
	BatchSize            int     `json:"batch_size"`
	MaxRetries           int     `json:"max_retries"`
	RetryDelaySeconds    float64 `json:"retry_delay_seconds"`
	DuplicateRadiusM     float64 `json:"duplicate_radius_meters"`
	SimilarityThreshold  float64 `json:"similarity_threshold"`
	Offset               int     `json:"offset"`
	Limit                int     `json:"limit"`
	StopOnError          bool    `json:"stop_on_error"`
}

// Metadata identifies one run.
type Metadata struct {
	SessionID  string     `json:"session_id"`
	Command    string     `json:"command"`
	Importer   string     `json:"importer"`
	SourceFile string     `json:"source_file"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    time.Time  `json:"ended_at"`
	DryRun     bool       `json:"dry_run"`
	Cancelled  bool       `json:"cancelled"`
	Parameters Parameters `json:"parameters"`
}

// RecordOutcome is the per-record slice of the report lists.
type RecordOutcome struct {
	ExternalID   string `json:"external_id"`
	Title        string `json:"title,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
	Error        string `json:"error,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Report is the machine-readable audit artifact written after a run.
type Report struct {
	Kind       string                  `json:"kind"`
	Metadata   Metadata                `json:"metadata"`
	Summary    entities.SessionSummary `json:"summary"`
	Created    []RecordOutcome         `json:"created"`
	Failed     []RecordOutcome         `json:"failed"`
	Duplicates []RecordOutcome         `json:"duplicates"`
	Batches    []entities.Batch        `json:"batches"`
}

// Build assembles a report from a finished session.
func Build(kind, command, sourceFile string, session *entities.ProcessingSession, params Parameters) Report {
	report := Report{
		Kind: kind,
		Metadata: Metadata{
			SessionID:  session.ID,
			Command:    command,
			Importer:   session.Importer,
			SourceFile: sourceFile,
			StartedAt:  session.StartedAt,
			EndedAt:    session.EndedAt,
			DryRun:     session.DryRun,
			Cancelled:  session.Cancelled,
			Parameters: params,
		},
		Summary: session.Summary,
		Batches: session.Batches,
	}

	for _, r := range session.Results() {
		outcome := RecordOutcome{
			ExternalID:   r.ExternalID,
			Title:        r.Title,
			SubmissionID: r.SubmissionID,
			Error:        r.Error,
		}
		switch {
		case r.SkippedDuplicate:
			if r.Duplicate != nil {
				outcome.Reason = r.Duplicate.Reason
			}
			report.Duplicates = append(report.Duplicates, outcome)
		case r.Success:
			report.Created = append(report.Created, outcome)
		default:
			report.Failed = append(report.Failed, outcome)
		}
	}

	return report
}

// Write persists the report as indented JSON. With an explicit path
// the file goes exactly there; otherwise a uuid-suffixed filename is
// created inside dir. Returns the path written.
func Write(dir, explicitPath string, report Report) (string, error) {
	path := explicitPath
	if path == "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-report-%s.json", report.Kind, uuid.New().String()))
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

// WriteArtworkURLs appends one frontend URL per successfully created
// submission to path, for operators sharing "what's new" lists.
// Returns the number of URLs written.
func WriteArtworkURLs(path, frontendBase string, session *entities.ProcessingSession) (int, error) {
	base := strings.TrimRight(frontendBase, "/")

	var sb strings.Builder
	count := 0
	for _, r := range session.Results() {
		if !r.Success || r.SubmissionID == "" {
			continue
		}
		sb.WriteString(base)
		sb.WriteString("/artwork/")
		sb.WriteString(r.SubmissionID)
		sb.WriteString("\n")
		count++
	}

	if count == 0 {
		return 0, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open artwork URL file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(sb.String()); err != nil {
		return 0, fmt.Errorf("failed to write artwork URLs: %w", err)
	}
	return count, nil
}
