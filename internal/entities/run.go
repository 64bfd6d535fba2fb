package entities

import "time"

// ImportRun is the optional run-history row written to the local
// sqlite database after a run finishes. It exists for the status
// command only; the pipeline never reads it back.
type ImportRun struct {
	ID                uint   `gorm:"primarykey"`
	SessionID         string `gorm:"index"`
	Command           string
	Importer          string
	SourceFile        string
	DryRun            bool
	Cancelled         bool
	TotalRecords      int
	SuccessfulImports int
	FailedImports     int
	SkippedDuplicates int
	DurationMs        int64
	ReportPath        string
	CreatedAt         time.Time
}

func (ImportRun) TableName() string {
	return "import_runs"
}
