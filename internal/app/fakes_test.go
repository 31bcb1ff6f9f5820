package app

import (
	"context"
	"errors"
	"time"

	"pipdeps/internal/policies"
	"pipdeps/internal/types"
)

// fakeWorkspace returns a fixed input set.
type fakeWorkspace struct {
	inputs types.Inputs
}

func (f fakeWorkspace) FindInputs(_ []string, _ bool) (types.Inputs, error) {
	return f.inputs, nil
}

// fakeExtractor serves canned import lists per script path.
type fakeExtractor struct {
	imports map[string][]string
	errs    map[string]error
}

func (f fakeExtractor) ExtractImports(path string) ([]string, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.imports[path], nil
}

// fakeManifests serves canned specs per manifest path.
type fakeManifests struct {
	specs map[string][]types.PackageSpec
	errs  map[string]error
}

func (f fakeManifests) ReadManifest(path string) ([]types.PackageSpec, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.specs[path], nil
}

// fakeProbe returns a fixed installed set.
type fakeProbe struct {
	installed map[string]string
	err       error
}

func (f fakeProbe) InstalledPackages(_ context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.installed, nil
}

// fakeMapping returns a fixed user table.
type fakeMapping struct {
	table map[string]string
	err   error
}

func (f fakeMapping) LoadUserMapping(_ string) (map[string]string, error) {
	return f.table, f.err
}

// fakePipRunner scripts pip behavior per install target. The version
// preflight and self-upgrade always succeed unless told otherwise.
type fakePipRunner struct {
	failTargets  map[string]types.PipResult
	versionErr   error
	calls        [][]string
	installCalls int
}

func (f *fakePipRunner) Run(_ context.Context, _ time.Duration, args ...string) (types.PipResult, error) {
	f.calls = append(f.calls, args)
	if len(args) > 0 && args[0] == "--version" {
		if f.versionErr != nil {
			return types.PipResult{}, f.versionErr
		}
		return types.PipResult{ExitCode: 0, Stdout: "pip 24.0"}, nil
	}
	if len(args) > 1 && args[0] == "install" && args[1] == "--upgrade" {
		return types.PipResult{ExitCode: 0}, nil
	}
	if len(args) > 0 && args[0] == "install" {
		f.installCalls++
		target := args[len(args)-1]
		if result, ok := f.failTargets[target]; ok {
			return result, nil
		}
		return types.PipResult{ExitCode: 0}, nil
	}
	return types.PipResult{ExitCode: 0}, nil
}

func (f *fakePipRunner) installedTargets() []string {
	var targets []string
	for _, args := range f.calls {
		if len(args) > 1 && args[0] == "install" && args[1] != "--upgrade" {
			targets = append(targets, args[len(args)-1])
		}
	}
	return targets
}

// memoryReports captures written reports in memory.
type memoryReports struct {
	paths   []string
	reports []types.Report
}

func (m *memoryReports) WriteReport(path string, report types.Report) error {
	m.paths = append(m.paths, path)
	m.reports = append(m.reports, report)
	return nil
}

func instantSleep(_ context.Context, _ time.Duration) error {
	return nil
}

func newTestService(runner *fakePipRunner, workspace fakeWorkspace, extractor fakeExtractor, manifests fakeManifests, probe fakeProbe) (Service, *memoryReports) {
	reports := &memoryReports{}
	service := Service{
		Extractor: extractor,
		Manifests: manifests,
		Probe:     probe,
		Runner:    runner,
		Mapping:   fakeMapping{},
		Workspace: workspace,
		Reports:   reports,
		Markers:   policies.DefaultFailureMarkers(),
		Sleep:     instantSleep,
		LookPath:  func(string) (string, error) { return "", errors.New("not found") },
		Clock:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return service, reports
}
