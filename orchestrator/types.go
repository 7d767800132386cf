package orchestrator

import "time"

// RunResult summarizes one sweep.
type RunResult struct {
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	DryRun     bool          `json:"dry_run"`
	Scopes     int           `json:"scopes"`
	Discovered int           `json:"discovered"`
	Deleted    int           `json:"deleted"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	// Errors holds (kind, scope) pairs whose discovery failed, and other
	// contained faults. Never causes an abort.
	Errors []string `json:"errors,omitempty"`
}
