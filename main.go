package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/publicart/massimport/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is the shape every subcommand implements.
type command interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func main() {
	// Missing .env is fine; the environment itself still applies.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "import", "validate", "dry-run":
		cmd = cli.NewImportCommand(name)

	case "bulk-approve":
		cmd = cli.NewBulkApproveCommand()

	case "status":
		cmd = cli.NewStatusCommand()

	case "version":
		fmt.Printf("massimport %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal cancels the run cooperatively: the in-flight record
	// finishes, the session is finalized, and the report still gets
	// written. A second signal force-exits.
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "\nInterrupt received, finishing the current record... (press again to force quit)")
		cancel()
		<-sigs
		os.Exit(130)
	}()

	if err := cmd.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  import        Import records from a dataset file into the remote store\n")
	fmt.Fprintf(os.Stderr, "  validate      Map and validate a dataset file without submitting\n")
	fmt.Fprintf(os.Stderr, "  dry-run       Run the full pipeline without submitting\n")
	fmt.Fprintf(os.Stderr, "  bulk-approve  Approve pending submissions in the review queue\n")
	fmt.Fprintf(os.Stderr, "  status        Show configuration, API health and recent runs\n")
	fmt.Fprintf(os.Stderr, "  version       Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
