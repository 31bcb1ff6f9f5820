package types

import "time"

// InstallJob is one tracked attempt-sequence against a single target:
// either a package spec or an entire requirements manifest.
type InstallJob struct {
	Target      string
	Kind        TargetKind
	MaxAttempts int
	Timeout     time.Duration
}

// Outcome is the final, immutable result of an InstallJob.
type Outcome struct {
	Target   string       `json:"target"`
	Kind     TargetKind   `json:"kind"`
	Success  bool         `json:"success"`
	Cause    FailureCause `json:"cause,omitempty"`
	Attempts int          `json:"attempts"`
}
