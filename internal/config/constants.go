package config

// Defaults shared between env config and CLI flag declarations.
const (
	DefaultBatchSize           = 50
	DefaultMaxRetries          = 3
	DefaultRadiusMeters        = 100.0
	DefaultSimilarityThreshold = 0.8
	DefaultReportDir           = "./reports"
)
