package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/publicart/massimport/internal/entities"
)

const sampleLimit = 5

// ConsoleSummary prints the operator-facing end-of-run summary: the
// counters, a success rate, and a short sample of successes and
// failures.
func ConsoleSummary(w io.Writer, session *entities.ProcessingSession) {
	s := session.Summary

	fmt.Fprintln(w, "\n=== Import Summary ===")
	if session.DryRun {
		fmt.Fprintln(w, "Mode: DRY RUN (no records were submitted)")
	}
	if session.Cancelled {
		fmt.Fprintln(w, "Run was cancelled; partial results below.")
	}
	fmt.Fprintf(w, "Session:    %s\n", session.ID)
	fmt.Fprintf(w, "Importer:   %s\n", session.Importer)
	fmt.Fprintf(w, "Duration:   %s\n", session.EndedAt.Sub(session.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Records:    %d total, %d successful, %d failed, %d skipped as duplicates\n",
		s.TotalRecords, s.SuccessfulImports, s.FailedImports, s.SkippedDuplicates)
	if s.TotalPhotos > 0 {
		fmt.Fprintf(w, "Photos:     %d attempted, %d imported\n", s.TotalPhotos, s.SuccessfulPhotos)
	}

	processed := s.SuccessfulImports + s.FailedImports + s.SkippedDuplicates
	if processed > 0 {
		rate := 100 * float64(s.SuccessfulImports+s.SkippedDuplicates) / float64(processed)
		fmt.Fprintf(w, "Success:    %.1f%%\n", rate)
	}

	printSample(w, "Sample successes:", session, func(r entities.BatchResult) bool { return r.Success })
	printSample(w, "Sample failures:", session, func(r entities.BatchResult) bool {
		return !r.Success && !r.SkippedDuplicate
	})
}

// ApprovalSummary prints the end-of-run summary for bulk approval.
func ApprovalSummary(w io.Writer, approved, rejected, errored, matched int, successRate float64) {
	fmt.Fprintln(w, "\n=== Bulk Approval Summary ===")
	fmt.Fprintf(w, "Matched:   %d\n", matched)
	fmt.Fprintf(w, "Approved:  %d\n", approved)
	fmt.Fprintf(w, "Rejected:  %d\n", rejected)
	fmt.Fprintf(w, "Errors:    %d\n", errored)
	fmt.Fprintf(w, "Success:   %.1f%%\n", successRate)
}

func printSample(w io.Writer, header string, session *entities.ProcessingSession, match func(entities.BatchResult) bool) {
	printed := 0
	for _, r := range session.Results() {
		if !match(r) {
			continue
		}
		if printed == 0 {
			fmt.Fprintln(w, header)
		}
		label := r.Title
		if label == "" {
			label = "(untitled)"
		}
		if r.Error != "" {
			fmt.Fprintf(w, "  - %s [%s]: %s\n", label, r.ExternalID, r.Error)
		} else {
			fmt.Fprintf(w, "  - %s [%s]\n", label, r.ExternalID)
		}
		printed++
		if printed == sampleLimit {
			break
		}
	}
}
