// Package approval implements the bulk promotion of pending imported
// submissions: fetch the review queue, filter, confirm, approve in
// chunks. Approvals are idempotent server-side, so continue-on-error
// is the only failure mode here.
package approval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/publicart/massimport/internal/api"
	"github.com/publicart/massimport/internal/entities"
)

// ReviewAPI is the slice of the remote client the workflow needs.
type ReviewAPI interface {
	PendingSubmissions(ctx context.Context, limit int) ([]entities.PendingSubmission, error)
	ApproveBatch(ctx context.Context, ids []int64) ([]api.ApprovalOutcome, error)
}

// Options controls one bulk-approval run.
type Options struct {
	Source         string // filter by originating source, empty for all
	UserToken      string // filter by originating user token, empty for all
	BatchSize      int
	MaxSubmissions int
	DryRun         bool
	AutoConfirm    bool
}

// ItemError is one submission that could not be approved.
type ItemError struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Result aggregates the outcome across all chunks.
type Result struct {
	Fetched  int         `json:"fetched"`
	Matched  int         `json:"matched"`
	Approved int         `json:"approved"`
	Rejected int         `json:"rejected"`
	Errors   []ItemError `json:"errors,omitempty"`
	Aborted  bool        `json:"aborted"`
	DryRun   bool        `json:"dry_run"`
}

// SuccessRate is the approved fraction of matched submissions, as a
// percentage.
func (r Result) SuccessRate() float64 {
	if r.Matched == 0 {
		return 100
	}
	return 100 * float64(r.Approved) / float64(r.Matched)
}

// Workflow drives the fetch -> confirm -> approve state machine.
type Workflow struct {
	client ReviewAPI
	in     io.Reader
	out    io.Writer
}

func NewWorkflow(client ReviewAPI, in io.Reader, out io.Writer) *Workflow {
	return &Workflow{client: client, in: in, out: out}
}

// Run executes one bulk-approval pass. A fetch failure aborts the
// whole run; per-chunk approval failures are counted and the run
// continues. Zero matching submissions is a successful no-op.
func (w *Workflow) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{DryRun: opts.DryRun}

	pending, err := w.client.PendingSubmissions(ctx, opts.MaxSubmissions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending submissions: %w", err)
	}
	result.Fetched = len(pending)

	matched := filter(pending, opts.Source, opts.UserToken)
	result.Matched = len(matched)
	if len(matched) == 0 {
		fmt.Fprintln(w.out, "No pending submissions match the given filters; nothing to do.")
		return result, nil
	}

	if opts.DryRun {
		fmt.Fprintf(w.out, "DRY RUN: %d submissions would be approved\n", len(matched))
		return result, nil
	}

	if !opts.AutoConfirm {
		ok, err := w.confirm(len(matched))
		if err != nil {
			return nil, err
		}
		if !ok {
			fmt.Fprintln(w.out, "Aborted; no submissions were approved.")
			result.Aborted = true
			return result, nil
		}
	}

	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(matched); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > len(matched) {
			end = len(matched)
		}
		chunk := matched[start:end]

		ids := make([]int64, len(chunk))
		for i, sub := range chunk {
			ids[i] = sub.ID
		}

		outcomes, err := w.client.ApproveBatch(ctx, ids)
		if err != nil {
			// the whole chunk counts as errored; later chunks still run
			for _, id := range ids {
				result.Errors = append(result.Errors, ItemError{ID: id, Message: err.Error()})
			}
			continue
		}

		for _, outcome := range outcomes {
			switch {
			case outcome.Error != "":
				result.Errors = append(result.Errors, ItemError{ID: outcome.ID, Message: outcome.Error})
			case outcome.Status == "rejected":
				result.Rejected++
			default:
				result.Approved++
			}
		}
	}

	return result, nil
}

// confirm requires a typed "YES" before any mutation. Anything else
// aborts, by design, for a destructive bulk operation.
func (w *Workflow) confirm(count int) (bool, error) {
	fmt.Fprintf(w.out, "About to approve %d pending submissions. Type YES to continue: ", count)

	scanner := bufio.NewScanner(w.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		return false, nil
	}
	return strings.TrimSpace(scanner.Text()) == "YES", nil
}

func filter(pending []entities.PendingSubmission, source, userToken string) []entities.PendingSubmission {
	var matched []entities.PendingSubmission
	for _, sub := range pending {
		if source != "" && sub.Source() != source {
			continue
		}
		if userToken != "" && sub.UserToken != userToken {
			continue
		}
		matched = append(matched, sub)
	}
	return matched
}
