package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/publicart/massimport/internal/api"
	"github.com/publicart/massimport/internal/config"
	"github.com/publicart/massimport/internal/history"
	"github.com/publicart/massimport/internal/importers"
)

const recentRunLimit = 10

// StatusCommand prints the effective configuration, checks the remote
// API health and shows recent runs from the local history database.
type StatusCommand struct {
	ConfigOnly bool

	flags configFlags
	cfg   *config.Config
}

func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

func (cmd *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	fs.BoolVar(&cmd.ConfigOnly, "config-only", false, "Only print the effective configuration, skip the health check")
	cmd.flags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s status [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the effective configuration, remote API health and recent runs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := cmd.flags.load(fs)
	if err != nil {
		return err
	}
	cmd.cfg = cfg

	return nil
}

func (cmd *StatusCommand) Run(ctx context.Context) error {
	cfg := cmd.cfg

	fmt.Println("=== Configuration ===")
	fmt.Printf("API endpoint:         %s\n", cfg.API.Endpoint)
	fmt.Printf("API token:            %s\n", presence(cfg.API.Token))
	fmt.Printf("Admin token:          %s\n", presence(cfg.API.AdminToken))
	fmt.Printf("Duplicate radius:     %.0fm\n", cfg.Detection.RadiusMeters)
	fmt.Printf("Similarity threshold: %.2f\n", cfg.Detection.SimilarityThreshold)
	fmt.Printf("Batch size:           %d\n", cfg.Batch.Size)
	fmt.Printf("Max retries:          %d\n", cfg.Batch.MaxRetries)
	fmt.Printf("Retry delay:          %s\n", cfg.Batch.RetryDelay)
	fmt.Printf("Report directory:     %s\n", cfg.Report.OutputDir)
	fmt.Printf("History database:     %s\n", valueOr(cfg.History.Path, "(disabled)"))
	fmt.Printf("Importers:            %v\n", importers.Names())

	if cmd.ConfigOnly {
		return nil
	}

	fmt.Println("\n=== Remote API ===")
	client := api.NewClient(cfg.API.Endpoint, cfg.API.Token, cfg.API.AdminToken, cfg.Batch.MaxRetries, cfg.Batch.RetryDelay)
	if err := client.Health(ctx); err != nil {
		fmt.Printf("Health: DOWN (%v)\n", err)
	} else {
		fmt.Println("Health: OK")
	}

	if cfg.History.Path != "" {
		if err := cmd.printRecentRuns(); err != nil {
			return err
		}
	}

	return nil
}

func (cmd *StatusCommand) printRecentRuns() error {
	store, err := history.Open(cmd.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(recentRunLimit)
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}

	fmt.Println("\n=== Recent runs ===")
	if len(runs) == 0 {
		fmt.Println("(none)")
		return nil
	}
	for _, run := range runs {
		note := ""
		if run.DryRun {
			note = " [dry-run]"
		}
		if run.Cancelled {
			note += " [cancelled]"
		}
		fmt.Printf("%s  %-9s %-10s %d records: %d ok, %d failed, %d duplicates%s\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.Command, run.Importer,
			run.TotalRecords, run.SuccessfulImports, run.FailedImports, run.SkippedDuplicates, note)
	}
	return nil
}

func presence(token string) string {
	if token == "" {
		return "(not set)"
	}
	return "(set)"
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
