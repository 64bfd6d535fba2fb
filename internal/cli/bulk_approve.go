package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/publicart/massimport/internal/api"
	"github.com/publicart/massimport/internal/approval"
	"github.com/publicart/massimport/internal/config"
	"github.com/publicart/massimport/internal/reports"
)

// BulkApproveCommand approves pending submissions from the remote
// review queue in batches.
type BulkApproveCommand struct {
	Source         string
	UserToken      string
	MaxSubmissions int
	DryRun         bool
	AutoConfirm    bool

	flags configFlags
	cfg   *config.Config
}

func NewBulkApproveCommand() *BulkApproveCommand {
	return &BulkApproveCommand{}
}

func (cmd *BulkApproveCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("bulk-approve", flag.ExitOnError)

	fs.StringVar(&cmd.Source, "source", "", "Only approve submissions from this source")
	fs.StringVar(&cmd.UserToken, "user-token", "", "Only approve submissions created by this user token")
	fs.IntVar(&cmd.MaxSubmissions, "max-submissions", 0, "Cap on submissions fetched from the queue (0 = no cap)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List what would be approved without approving anything")
	fs.BoolVar(&cmd.AutoConfirm, "auto-confirm", false, "Skip the interactive confirmation prompt")
	cmd.flags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s bulk-approve [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Approve pending submissions in the remote review queue. A destructive\n")
		fmt.Fprintf(os.Stderr, "bulk operation: it asks for a typed YES unless -auto-confirm is set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s bulk-approve -source osm -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s bulk-approve -source osm -admin-token $ADMIN_TOKEN -auto-confirm\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := cmd.flags.load(fs)
	if err != nil {
		return err
	}
	cmd.cfg = cfg

	// Dry-run only reads the queue, so the lower-privilege token is
	// enough for it.
	if !cmd.DryRun && cfg.API.AdminToken == "" {
		return fmt.Errorf("an admin token is required to approve submissions (set -admin-token or ADMIN_TOKEN)")
	}

	return nil
}

func (cmd *BulkApproveCommand) Run(ctx context.Context) error {
	cfg := cmd.cfg
	client := api.NewClient(cfg.API.Endpoint, cfg.API.Token, cfg.API.AdminToken, cfg.Batch.MaxRetries, cfg.Batch.RetryDelay)

	workflow := approval.NewWorkflow(client, os.Stdin, os.Stdout)
	result, err := workflow.Run(ctx, approval.Options{
		Source:         cmd.Source,
		UserToken:      cmd.UserToken,
		BatchSize:      cfg.Batch.Size,
		MaxSubmissions: cmd.MaxSubmissions,
		DryRun:         cmd.DryRun,
		AutoConfirm:    cmd.AutoConfirm,
	})
	if err != nil {
		return err
	}

	if result.Aborted {
		fmt.Println("Aborted; nothing was approved.")
		return nil
	}
	if result.DryRun {
		return nil
	}

	reports.ApprovalSummary(os.Stdout, result.Approved, result.Rejected, len(result.Errors), result.Matched, result.SuccessRate())
	for _, itemErr := range result.Errors {
		fmt.Printf("  [ERROR] submission %d: %s\n", itemErr.ID, itemErr.Message)
	}
	return nil
}
