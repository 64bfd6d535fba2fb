package cli

import (
	"flag"
	"time"

	"github.com/publicart/massimport/internal/config"
)

// configFlags are the global flags shared by every command. They layer
// on top of environment/config-file values: only flags the operator
// actually set override the config.
type configFlags struct {
	ConfigFile          string
	APIEndpoint         string
	Token               string
	AdminToken          string
	BatchSize           int
	MaxRetries          int
	RetryDelay          time.Duration
	RadiusMeters        float64
	SimilarityThreshold float64
	Offset              int
	Limit               int
	ReportDir           string
	FrontendBase        string
	HistoryDB           string
}

func (g *configFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.ConfigFile, "config", "", "Path to a config file (values also come from the environment)")
	fs.StringVar(&g.APIEndpoint, "api-endpoint", "", "Base URL of the remote artwork API")
	fs.StringVar(&g.Token, "token", "", "API token for submissions")
	fs.StringVar(&g.AdminToken, "admin-token", "", "Administrative API token (bulk approval)")
	fs.IntVar(&g.BatchSize, "batch-size", 0, "Records per batch")
	fs.IntVar(&g.MaxRetries, "max-retries", 0, "Total submission attempts per record")
	fs.DurationVar(&g.RetryDelay, "retry-delay", 0, "Fixed delay between retry attempts (e.g. 2s)")
	fs.Float64Var(&g.RadiusMeters, "duplicate-radius", 0, "Duplicate detection radius in meters")
	fs.Float64Var(&g.SimilarityThreshold, "similarity-threshold", 0, "Title similarity threshold in (0,1]")
	fs.IntVar(&g.Offset, "offset", 0, "Skip this many records before processing")
	fs.IntVar(&g.Limit, "limit", 0, "Process at most this many records (0 = all)")
	fs.StringVar(&g.ReportDir, "report-dir", "", "Directory for generated JSON reports")
	fs.StringVar(&g.FrontendBase, "frontend-base", "", "Frontend base URL for artwork links")
	fs.StringVar(&g.HistoryDB, "history-db", "", "Path to the local run-history database")
}

// load builds the effective configuration: environment and optional
// config file first, then explicitly-set flags on top.
func (g *configFlags) load(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.NewConfig(g.ConfigFile)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["api-endpoint"] {
		cfg.API.Endpoint = g.APIEndpoint
	}
	if set["token"] {
		cfg.API.Token = g.Token
	}
	if set["admin-token"] {
		cfg.API.AdminToken = g.AdminToken
	}
	if set["batch-size"] {
		cfg.Batch.Size = g.BatchSize
	}
	if set["max-retries"] {
		cfg.Batch.MaxRetries = g.MaxRetries
	}
	if set["retry-delay"] {
		cfg.Batch.RetryDelay = g.RetryDelay
	}
	if set["duplicate-radius"] {
		cfg.Detection.RadiusMeters = g.RadiusMeters
	}
	if set["similarity-threshold"] {
		cfg.Detection.SimilarityThreshold = g.SimilarityThreshold
	}
	if set["offset"] {
		cfg.Batch.Offset = g.Offset
	}
	if set["limit"] {
		cfg.Batch.Limit = g.Limit
	}
	if set["report-dir"] {
		cfg.Report.OutputDir = g.ReportDir
	}
	if set["frontend-base"] {
		cfg.Report.FrontendBase = g.FrontendBase
	}
	if set["history-db"] {
		cfg.History.Path = g.HistoryDB
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
