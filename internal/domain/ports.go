package domain

import "context"

// SourceAnalyzer parses Python source into a structural summary.
type SourceAnalyzer interface {
	Analyze(source string) (*StructuralSummary, error)
}

// StyleChecker scans source text for style violations and scores it.
// Implementations must never propagate internal failures; a broken scan
// degrades to a zero-score report with the error recorded in Status/Error.
type StyleChecker interface {
	Check(source string, cfg ReviewConfig) StyleReport
}

// HarnessRunner executes a generated harness script and parses its JSON
// output. The script is handed to an external interpreter; the runner owns
// temp-resource cleanup on every exit path.
type HarnessRunner interface {
	Run(ctx context.Context, script string) (*TestExecutionResult, error)
}

// ConfigLoader loads the review configuration for a working directory.
type ConfigLoader interface {
	Load(projectPath string) (ReviewConfig, error)
}

// ReviewHistory persists review attempts across submissions.
type ReviewHistory interface {
	Save(entry ReviewEntry) error
	Last(sourceHash string) (*ReviewEntry, error)
	Recent(limit int) ([]ReviewEntry, error)
	Close() error
}

// GitInfo reports version-control metadata for a path.
type GitInfo interface {
	CommitHash(path string) (string, error)
}
