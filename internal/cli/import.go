package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/publicart/massimport/internal/api"
	"github.com/publicart/massimport/internal/artists"
	"github.com/publicart/massimport/internal/config"
	"github.com/publicart/massimport/internal/duplicates"
	"github.com/publicart/massimport/internal/entities"
	"github.com/publicart/massimport/internal/history"
	"github.com/publicart/massimport/internal/importers"
	"github.com/publicart/massimport/internal/processor"
	"github.com/publicart/massimport/internal/reports"
)

// ImportCommand backs the import, validate and dry-run subcommands.
// The latter two are the same pipeline with submission forced off.
type ImportCommand struct {
	Mode string // "import", "validate" or "dry-run"

	File             string
	Importer         string
	Source           string
	DryRun           bool
	StopOnError      bool
	OutputPath       string
	NewArtworkReport string
	Verbose          bool

	flags configFlags
	cfg   *config.Config
}

func NewImportCommand(mode string) *ImportCommand {
	return &ImportCommand{Mode: mode}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.Mode, flag.ExitOnError)

	fs.StringVar(&cmd.Importer, "importer", importers.AllImporters, "Importer to run, or \"all\" for every registered importer")
	fs.StringVar(&cmd.Source, "source", "", "Source label attached to submitted records (default: importer name)")
	fs.StringVar(&cmd.OutputPath, "output", "", "Explicit path for the JSON report (default: generated name in the report directory)")
	fs.StringVar(&cmd.NewArtworkReport, "new-artwork-report", "", "Write one frontend URL per created artwork to this file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-record progress")
	if cmd.Mode == "import" {
		fs.BoolVar(&cmd.DryRun, "dry-run", false, "Run the full pipeline without submitting anything")
		fs.BoolVar(&cmd.StopOnError, "stop-on-error", false, "Stop at the first failed record instead of continuing")
	}
	cmd.flags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s <file> [options]\n\n", os.Args[0], cmd.Mode)
		switch cmd.Mode {
		case "validate":
			fmt.Fprintf(os.Stderr, "Map and validate records from a dataset file without submitting anything.\n\n")
		case "dry-run":
			fmt.Fprintf(os.Stderr, "Run the full pipeline, duplicate detection included, without submitting anything.\n\n")
		default:
			fmt.Fprintf(os.Stderr, "Import records from a dataset file into the remote artwork store.\n\n")
		}
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s %s artworks.json -importer osm\n", os.Args[0], cmd.Mode)
		fmt.Fprintf(os.Stderr, "  %s %s export.geojson -importer geojson -verbose\n", os.Args[0], cmd.Mode)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.File = fs.Arg(0)
	if cmd.File == "" {
		return fmt.Errorf("input file argument is required")
	}

	if cmd.Mode != "import" {
		cmd.DryRun = true
	}

	validation := importers.Validate(cmd.Importer)
	if !validation.Valid {
		if len(validation.Suggestions) > 0 {
			return fmt.Errorf("%s, did you mean %v?", validation.Message, validation.Suggestions)
		}
		return fmt.Errorf("%s", validation.Message)
	}

	cfg, err := cmd.flags.load(fs)
	if err != nil {
		return err
	}
	cmd.cfg = cfg

	return nil
}

func (cmd *ImportCommand) Run(ctx context.Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	cfg := cmd.cfg
	client := api.NewClient(cfg.API.Endpoint, cfg.API.Token, cfg.API.AdminToken, cfg.Batch.MaxRetries, cfg.Batch.RetryDelay)
	if cmd.Verbose {
		client.OnRetry = func(attempt int, err error) {
			log.Printf("retrying submission (attempt %d): %v", attempt, err)
		}
	}

	detector, err := duplicates.NewDetector(client, cfg.Detection.RadiusMeters, cfg.Detection.SimilarityThreshold)
	if err != nil {
		return err
	}
	matcher := artists.NewMatcher(client)

	names := []string{cmd.Importer}
	if cmd.Importer == importers.AllImporters {
		names = importers.Names()
	}

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No records will be submitted")
	}

	failures := 0
	for _, name := range names {
		if err := cmd.runImporter(ctx, name, data, detector, matcher, client); err != nil {
			if len(names) == 1 {
				return err
			}
			fmt.Fprintf(os.Stderr, "[ERROR] importer %s: %v\n", name, err)
			failures++
		}
		if ctx.Err() != nil {
			break
		}
	}

	if failures == len(names) {
		return fmt.Errorf("every importer failed against %s", cmd.File)
	}
	return nil
}

func (cmd *ImportCommand) runImporter(ctx context.Context, name string, data []byte,
	detector *duplicates.Detector, matcher *artists.Matcher, client *api.Client) error {

	adapter, ok := importers.Get(name)
	if !ok {
		return fmt.Errorf("unknown importer %q", name)
	}

	mapped, err := adapter.Map(data)
	if err != nil {
		return fmt.Errorf("failed to map input with importer %s: %w", name, err)
	}

	fmt.Printf("\nImporter: %s (%d records)\n", name, len(mapped.Records))

	var listener processor.Listener
	if cmd.Verbose {
		listener = &progressListener{w: os.Stdout, total: len(mapped.Records)}
	}

	cfg := cmd.cfg
	proc := processor.New(detector, matcher, apiSubmitter{client: client}, listener)
	session := proc.Process(ctx, mapped.Records, mapped.Artists, processor.Options{
		Importer:    name,
		Source:      cmd.sourceLabel(name),
		DryRun:      cmd.DryRun,
		StopOnError: cmd.StopOnError,
		BatchSize:   cfg.Batch.Size,
		Offset:      cfg.Batch.Offset,
		Limit:       cfg.Batch.Limit,
	})

	reports.ConsoleSummary(os.Stdout, session)

	report := reports.Build(cmd.reportKind(), cmd.Mode, cmd.File, session, reports.Parameters{
		APIEndpoint:         cfg.API.Endpoint,
		BatchSize:           cfg.Batch.Size,
		MaxRetries:          cfg.Batch.MaxRetries,
		RetryDelaySeconds:   cfg.Batch.RetryDelay.Seconds(),
		DuplicateRadiusM:    cfg.Detection.RadiusMeters,
		SimilarityThreshold: cfg.Detection.SimilarityThreshold,
		Offset:              cfg.Batch.Offset,
		Limit:               cfg.Batch.Limit,
		StopOnError:         cmd.StopOnError,
	})

	reportPath, err := reports.Write(cfg.Report.OutputDir, cmd.outputPathFor(), report)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", reportPath)

	if cmd.NewArtworkReport != "" && !cmd.DryRun {
		count, err := reports.WriteArtworkURLs(cmd.NewArtworkReport, cfg.Report.FrontendBase, session)
		if err != nil {
			return err
		}
		if count > 0 {
			fmt.Printf("Wrote %d artwork URLs to %s\n", count, cmd.NewArtworkReport)
		}
	}

	cmd.recordHistory(session, reportPath)
	return nil
}

// outputPathFor keeps -output usable with a single importer; with
// "all" each importer still gets its own generated filename so runs
// don't overwrite each other.
func (cmd *ImportCommand) outputPathFor() string {
	if cmd.Importer == importers.AllImporters {
		return ""
	}
	return cmd.OutputPath
}

func (cmd *ImportCommand) sourceLabel(importerName string) string {
	if cmd.Source != "" {
		return cmd.Source
	}
	return importerName
}

func (cmd *ImportCommand) reportKind() string {
	switch {
	case cmd.Mode == "validate":
		return reports.KindValidation
	case cmd.DryRun:
		return reports.KindDryRun
	default:
		return reports.KindImport
	}
}

// recordHistory is best-effort: a broken history database never fails
// a run that already submitted records.
func (cmd *ImportCommand) recordHistory(session *entities.ProcessingSession, reportPath string) {
	if cmd.cfg.History.Path == "" {
		return
	}

	store, err := history.Open(cmd.cfg.History.Path)
	if err != nil {
		log.Printf("run history unavailable: %v", err)
		return
	}
	defer store.Close()

	run := &entities.ImportRun{
		SessionID:         session.ID,
		Command:           cmd.Mode,
		Importer:          session.Importer,
		SourceFile:        cmd.File,
		DryRun:            session.DryRun,
		Cancelled:         session.Cancelled,
		TotalRecords:      session.Summary.TotalRecords,
		SuccessfulImports: session.Summary.SuccessfulImports,
		FailedImports:     session.Summary.FailedImports,
		SkippedDuplicates: session.Summary.SkippedDuplicates,
		DurationMs:        session.EndedAt.Sub(session.StartedAt).Milliseconds(),
		ReportPath:        reportPath,
	}
	if err := store.RecordRun(run); err != nil {
		log.Printf("failed to record run history: %v", err)
	}
}

// apiSubmitter adapts the API client to the processor's submitter
// contract.
type apiSubmitter struct {
	client *api.Client
}

func (s apiSubmitter) SubmitRecord(ctx context.Context, rec entities.CanonicalRecord, creatorIDs []string) (*processor.SubmissionOutcome, error) {
	out, err := s.client.SubmitRecord(ctx, rec, creatorIDs)
	if err != nil {
		return nil, err
	}
	return &processor.SubmissionOutcome{ID: out.ID, PhotosSucceeded: out.PhotosSucceeded}, nil
}
