package cli

import (
	"fmt"
	"io"

	"github.com/publicart/massimport/internal/entities"
	"github.com/publicart/massimport/internal/processor"
)

// progressListener prints one line per processed record. It backs the
// -verbose flag; without it the run stays quiet until the summary.
type progressListener struct {
	w     io.Writer
	total int
}

var _ processor.Listener = (*progressListener)(nil)

func (l *progressListener) RecordStarted(index int, rec entities.CanonicalRecord) {}

func (l *progressListener) RecordCompleted(index int, result entities.BatchResult) {
	label := result.Title
	if label == "" {
		label = "(untitled)"
	}

	switch {
	case result.SkippedDuplicate:
		reason := ""
		if result.Duplicate != nil {
			reason = " (" + result.Duplicate.Reason + ")"
		}
		fmt.Fprintf(l.w, "  [%d/%d] DUPLICATE %s%s\n", index+1, l.total, label, reason)
	case result.Success && result.SubmissionID != "":
		fmt.Fprintf(l.w, "  [%d/%d] OK        %s -> %s\n", index+1, l.total, label, result.SubmissionID)
	case result.Success:
		fmt.Fprintf(l.w, "  [%d/%d] OK        %s\n", index+1, l.total, label)
	default:
		fmt.Fprintf(l.w, "  [%d/%d] FAILED    %s: %s\n", index+1, l.total, label, result.Error)
	}
}

func (l *progressListener) BatchCompleted(batch entities.Batch) {
	fmt.Fprintf(l.w, "Batch %d complete (%d records)\n", batch.Index+1, len(batch.Results))
}
