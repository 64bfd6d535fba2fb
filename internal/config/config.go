package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	// Config holds every operator-controlled run parameter. It is
	// constructed once per invocation and never mutated mid-run,
	// except the dry-run flag being forced by the validate/dry-run
	// commands.
	Config struct {
		API
		Detection
		Batch
		Report
		History
	}

	API struct {
		Endpoint   string
		Token      string
		AdminToken string
	}
	Detection struct {
		RadiusMeters        float64
		SimilarityThreshold float64
	}
	Batch struct {
		Size       int
		MaxRetries int
		RetryDelay time.Duration
		Offset     int
		Limit      int
	}
	Report struct {
		OutputDir    string
		FrontendBase string
	}
	History struct {
		Path string // empty disables run history
	}
)

// NewConfig reads configuration from the environment and, when
// configFile is non-empty, from that file. CLI flags layer on top of
// the result at the command level.
func NewConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("api_endpoint", "http://localhost:3002")
	v.SetDefault("api_token", "")
	v.SetDefault("admin_token", "")
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("retry_delay", "2s")
	v.SetDefault("duplicate_radius_meters", DefaultRadiusMeters)
	v.SetDefault("similarity_threshold", DefaultSimilarityThreshold)
	v.SetDefault("report_output_dir", DefaultReportDir)
	v.SetDefault("frontend_base_url", "https://publicartregistry.example.org")
	v.SetDefault("history_db_path", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return &Config{
		API: API{
			Endpoint:   v.GetString("API_ENDPOINT"),
			Token:      v.GetString("API_TOKEN"),
			AdminToken: v.GetString("ADMIN_TOKEN"),
		},
		Detection: Detection{
			RadiusMeters:        v.GetFloat64("DUPLICATE_RADIUS_METERS"),
			SimilarityThreshold: v.GetFloat64("SIMILARITY_THRESHOLD"),
		},
		Batch: Batch{
			Size:       v.GetInt("BATCH_SIZE"),
			MaxRetries: v.GetInt("MAX_RETRIES"),
			RetryDelay: v.GetDuration("RETRY_DELAY"),
			Offset:     v.GetInt("OFFSET"),
			Limit:      v.GetInt("LIMIT"),
		},
		Report: Report{
			OutputDir:    v.GetString("REPORT_OUTPUT_DIR"),
			FrontendBase: v.GetString("FRONTEND_BASE_URL"),
		},
		History: History{
			Path: v.GetString("HISTORY_DB_PATH"),
		},
	}, nil
}

// Validate rejects bad tuning parameters before any I/O begins.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint must not be empty")
	}
	if c.Detection.RadiusMeters <= 0 {
		return fmt.Errorf("duplicate detection radius must be positive, got %f", c.Detection.RadiusMeters)
	}
	if c.Detection.SimilarityThreshold <= 0 || c.Detection.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got %f", c.Detection.SimilarityThreshold)
	}
	if c.Batch.Size < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Batch.Size)
	}
	if c.Batch.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.Batch.MaxRetries)
	}
	if c.Batch.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative")
	}
	if c.Batch.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", c.Batch.Offset)
	}
	return nil
}
