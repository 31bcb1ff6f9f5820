package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pipdeps/internal/adapters"
	"pipdeps/internal/app"
	"pipdeps/internal/policies"
	"pipdeps/internal/types"
	"pipdeps/tests/testutil"
)

// loopbackRunner answers pip invocations from canned data so the full
// pipeline can run against real files without a Python toolchain.
type loopbackRunner struct {
	installed []map[string]string
	failing   map[string]string
	calls     [][]string
}

func (r *loopbackRunner) Run(_ context.Context, _ time.Duration, args ...string) (types.PipResult, error) {
	r.calls = append(r.calls, args)
	switch {
	case len(args) > 0 && args[0] == "--version":
		return types.PipResult{ExitCode: 0, Stdout: "pip 24.0 from /usr/lib/python3/dist-packages/pip"}, nil
	case len(args) > 0 && args[0] == "list":
		payload, err := json.Marshal(r.installedEntries())
		if err != nil {
			return types.PipResult{}, err
		}
		return types.PipResult{ExitCode: 0, Stdout: string(payload)}, nil
	case len(args) > 0 && args[0] == "install":
		target := args[len(args)-1]
		if stderr, ok := r.failing[target]; ok {
			return types.PipResult{ExitCode: 1, Stderr: stderr}, nil
		}
		return types.PipResult{ExitCode: 0}, nil
	default:
		return types.PipResult{ExitCode: 0}, nil
	}
}

func (r *loopbackRunner) installedEntries() []map[string]string {
	if r.installed == nil {
		return []map[string]string{}
	}
	return r.installed
}

func newPipelineService(runner *loopbackRunner) app.Service {
	return app.Service{
		Extractor: adapters.NewPythonSourceAdapter(),
		Manifests: adapters.NewRequirementsFileAdapter(),
		Probe:     adapters.NewInstalledProbeAdapter(runner),
		Runner:    runner,
		Mapping:   adapters.NewMappingFileAdapter(),
		Workspace: adapters.NewWorkspaceAdapter(),
		Reports:   adapters.NewReportFileAdapter(),
		Markers:   policies.DefaultFailureMarkers(),
		Sleep:     func(context.Context, time.Duration) error { return nil },
		LookPath:  func(string) (string, error) { return "/usr/bin/cc", nil },
		Clock:     time.Now,
	}
}

func quickPolicy() policies.InstallPolicy {
	policy := policies.DefaultInstallPolicy()
	policy.SelfUpgrade = false
	return policy
}

func TestEnsurePipelineOnRealFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "main.py"), `
import os
import requests
import cv2
from yaml import safe_load

def main():
    print(safe_load("{}"))
`)
	testutil.WriteFile(t, filepath.Join(root, "sub", "worker.py"), `
import requests
import flask
`)
	testutil.WriteFile(t, filepath.Join(root, "requirements.txt"), "click==8.1.7\n")
	mappingPath := filepath.Join(root, "mapping.yaml")
	testutil.WriteFile(t, mappingPath, "cv2: opencv-python-headless\n")

	runner := &loopbackRunner{
		installed: []map[string]string{
			{"name": "requests", "version": "2.31.0"},
		},
	}
	service := newPipelineService(runner)

	reportPath := filepath.Join(root, "report.json")
	result, err := service.Ensure(context.Background(), app.EnsureRequest{
		Paths:       []string{root},
		Recursive:   true,
		MappingFile: mappingPath,
		Policy:      quickPolicy(),
		ReportFile:  reportPath,
	})
	require.NoError(t, err)

	report := result.Report
	require.Equal(t, []string{"os"}, report.StdlibSkipped)
	require.Len(t, report.Satisfied, 1)
	require.Equal(t, "requests", report.Satisfied[0].Name)

	var missing []string
	for _, spec := range report.Missing {
		missing = append(missing, spec.Name)
	}
	require.ElementsMatch(t, []string{"opencv-python-headless", "pyyaml", "flask"}, missing)
	require.Equal(t, []string{filepath.Join(root, "requirements.txt")}, report.Manifests)
	require.Equal(t, 4, report.InstalledCount(), "three packages plus the manifest")
	require.Equal(t, 0, report.FailedCount())

	// The written report round-trips as JSON.
	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var decoded types.Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Equal(t, report.InstalledCount(), decoded.InstalledCount())
}

func TestEnsurePipelineSecondRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "main.py"), "import requests\n")
	testutil.WriteFile(t, filepath.Join(root, "requirements.txt"), "click==8.1.7\n")

	runner := &loopbackRunner{
		installed: []map[string]string{
			{"name": "requests", "version": "2.31.0"},
			{"name": "click", "version": "8.1.7"},
		},
	}
	service := newPipelineService(runner)

	result, err := service.Ensure(context.Background(), app.EnsureRequest{
		Paths:  []string{root},
		Policy: quickPolicy(),
	})
	require.NoError(t, err)
	require.Empty(t, result.Report.Missing)
	require.Empty(t, result.Report.Manifests, "pinned manifest already satisfied")
	require.Empty(t, result.Report.Outcomes)
	for _, call := range runner.calls {
		require.NotEqual(t, "install", call[0], "no install may run when everything is satisfied")
	}
}

func TestEnsurePipelineReportsFailureCause(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "app.py"), "import lxml\n")

	runner := &loopbackRunner{
		failing: map[string]string{
			"lxml": "ERROR: Failed building wheel for lxml",
		},
	}
	policy := quickPolicy()
	policy.MaxAttempts = 2
	service := newPipelineService(runner)

	result, err := service.Ensure(context.Background(), app.EnsureRequest{
		Paths:  []string{root},
		Policy: policy,
	})
	require.Error(t, err)
	failed := result.Report.FailedOutcomes()
	require.Len(t, failed, 1)
	require.Equal(t, types.FailureCauseBuildToolchain, failed[0].Cause)
	require.Equal(t, 2, failed[0].Attempts)
}

func TestScanPipelineLeavesEnvironmentAlone(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "main.py"), "import numpy\n")

	runner := &loopbackRunner{}
	service := newPipelineService(runner)

	result, err := service.Scan(context.Background(), app.ScanRequest{Paths: []string{root}})
	require.NoError(t, err)
	require.Len(t, result.Report.Missing, 1)
	for _, call := range runner.calls {
		require.NotEqual(t, "install", call[0])
	}
}
