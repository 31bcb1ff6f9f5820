package app

import (
	"context"
	"os/exec"
	"time"

	"pipdeps/internal/adapters"
	"pipdeps/internal/policies"
	"pipdeps/internal/ports"
)

type Service struct {
	Extractor ports.ImportExtractorPort
	Manifests ports.ManifestPort
	Probe     ports.InstalledProbePort
	Runner    ports.PipRunnerPort
	Mapping   ports.MappingSourcePort
	Workspace ports.WorkspacePort
	Reports   ports.ReportWriterPort
	Markers   []policies.FailureMarker
	Sleep     func(ctx context.Context, delay time.Duration) error
	LookPath  func(file string) (string, error)
	Clock     func() time.Time
}

// NewService wires the production adapters around the given Python
// interpreter.
func NewService(python string) Service {
	runner := adapters.NewPipRunnerAdapter(python)
	return Service{
		Extractor: adapters.NewPythonSourceAdapter(),
		Manifests: adapters.NewRequirementsFileAdapter(),
		Probe:     adapters.NewInstalledProbeAdapter(runner),
		Runner:    runner,
		Mapping:   adapters.NewMappingFileAdapter(),
		Workspace: adapters.NewWorkspaceAdapter(),
		Reports:   adapters.NewReportFileAdapter(),
		Markers:   policies.DefaultFailureMarkers(),
		LookPath:  exec.LookPath,
		Clock:     time.Now,
	}
}
