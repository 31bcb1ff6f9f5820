package app

import (
	"pipdeps/internal/policies"
	"pipdeps/internal/types"
)

// Plan is what a run intends to install, shown to the user before any
// package manager invocation.
type Plan struct {
	Missing   []types.PackageSpec
	Manifests []string
}

// Pending reports whether the plan contains any work.
func (p Plan) Pending() bool {
	return len(p.Missing) > 0 || len(p.Manifests) > 0
}

// EnsureRequest drives the full pipeline: analyze inputs, probe the
// environment, and install whatever is missing. Confirm, when non-nil,
// is consulted once before installs start; a false answer aborts the
// run without error.
type EnsureRequest struct {
	Paths       []string
	Recursive   bool
	MappingFile string
	Policy      policies.InstallPolicy
	ReportFile  string
	Confirm     func(plan Plan) (bool, error)
}

type EnsureResult struct {
	Report types.Report
}

// ScanRequest drives analysis only: no package manager mutation ever
// happens during a scan.
type ScanRequest struct {
	Paths       []string
	Recursive   bool
	MappingFile string
	ReportFile  string
}

type ScanResult struct {
	Report types.Report
}
