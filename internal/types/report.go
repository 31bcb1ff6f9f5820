package types

// FileIssue records a per-file failure that did not abort the run.
type FileIssue struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// SatisfiedPackage is a candidate that was already present in the
// environment at the probed version.
type SatisfiedPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Report aggregates one run. It is append-only with a single writer
// (the orchestrator) and rendered by whatever front end invoked the run.
type Report struct {
	GeneratedAt   string             `json:"generated_at,omitempty"`
	InvalidPaths  []string           `json:"invalid_paths,omitempty"`
	ParseFailures []FileIssue        `json:"parse_failures,omitempty"`
	ImportsFound  int                `json:"imports_found"`
	StdlibSkipped []string           `json:"stdlib_skipped,omitempty"`
	Satisfied     []SatisfiedPackage `json:"satisfied,omitempty"`
	Missing       []PackageSpec      `json:"missing,omitempty"`
	Manifests     []string           `json:"manifests,omitempty"`
	Outcomes      []Outcome          `json:"outcomes,omitempty"`
	Aborted       bool               `json:"aborted,omitempty"`
}

// InstalledCount returns the number of successful install outcomes.
func (r Report) InstalledCount() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Success {
			count++
		}
	}
	return count
}

// FailedCount returns the number of failed install outcomes.
func (r Report) FailedCount() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if !outcome.Success {
			count++
		}
	}
	return count
}

// FailedOutcomes returns the failed outcomes in job order.
func (r Report) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if !outcome.Success {
			failed = append(failed, outcome)
		}
	}
	return failed
}
