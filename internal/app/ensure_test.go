package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"pipdeps/internal/policies"
	"pipdeps/internal/types"
)

func testPolicy() policies.InstallPolicy {
	policy := policies.DefaultInstallPolicy()
	policy.SelfUpgrade = false
	return policy
}

func TestEnsureInstallsMissingPackages(t *testing.T) {
	runner := &fakePipRunner{failTargets: map[string]types.PipResult{
		"opencv-python": {ExitCode: 1, Stderr: "ERROR: Failed building wheel for opencv-python"},
	}}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{
			"/w/main.py": {"os", "requests", "cv2"},
		}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{"flask": "3.0.0"}},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.Error(t, err, "a failed target must surface as an error")

	report := result.Report
	require.Equal(t, 3, report.ImportsFound)
	require.Equal(t, []string{"os"}, report.StdlibSkipped)
	require.Empty(t, report.Satisfied)
	require.Equal(t, 1, report.InstalledCount())
	require.Equal(t, 1, report.FailedCount())
	require.Equal(t, types.FailureCauseBuildToolchain, report.FailedOutcomes()[0].Cause)

	// Three attempts were spent on the failing target, one on the
	// successful one.
	if diff := cmp.Diff([]string{
		"opencv-python", "opencv-python", "opencv-python", "requests",
	}, runner.installedTargets()); diff != "" {
		t.Fatalf("unexpected install calls (-want +got):\n%s", diff)
	}
}

func TestEnsureNothingToInstall(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"os", "json", "requests"}}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{"requests": "2.31.0"}},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.NoError(t, err)
	require.Empty(t, result.Report.Missing)
	require.Empty(t, runner.calls, "no pip invocation when nothing is pending")
}

func TestEnsureParseErrorIsLocal(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/bad.py", "/w/good.py"}}},
		fakeExtractor{
			imports: map[string][]string{"/w/good.py": {"flask"}},
			errs:    map[string]error{"/w/bad.py": errors.New("cannot parse /w/bad.py as Python source")},
		},
		fakeManifests{},
		fakeProbe{installed: map[string]string{}},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.NoError(t, err)
	require.Len(t, result.Report.ParseFailures, 1)
	require.Equal(t, "/w/bad.py", result.Report.ParseFailures[0].File)
	require.Equal(t, []string{"Flask"}, runner.installedTargets(), "the good file is still processed")
	require.Equal(t, 1, result.Report.InstalledCount())
}

func TestEnsureProbeFailureInstallsEverything(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"requests"}}},
		fakeManifests{},
		fakeProbe{err: errors.New("pip list exploded")},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.NoError(t, err)
	require.Empty(t, result.Report.Satisfied, "probe failure means nothing counts as installed")
	require.Equal(t, []string{"requests"}, runner.installedTargets())
}

func TestEnsureManifestSatisfiedSkipsJob(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Manifests: []string{"/w/requirements.txt"}}},
		fakeExtractor{},
		fakeManifests{specs: map[string][]types.PackageSpec{
			"/w/requirements.txt": {
				{Name: "requests", Raw: "requests==2.31.0", Op: types.ConstraintOpEq, Version: "2.31.0"},
				{Name: "flask", Raw: "flask"},
			},
		}},
		fakeProbe{installed: map[string]string{"requests": "2.31.0", "flask": "3.0.0"}},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.NoError(t, err)
	require.Empty(t, result.Report.Manifests)
	require.Empty(t, runner.calls)
}

func TestEnsureManifestPinMismatchRunsJob(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Manifests: []string{"/w/requirements.txt"}}},
		fakeExtractor{},
		fakeManifests{specs: map[string][]types.PackageSpec{
			"/w/requirements.txt": {
				{Name: "requests", Raw: "requests==2.31.0", Op: types.ConstraintOpEq, Version: "2.31.0"},
			},
		}},
		fakeProbe{installed: map[string]string{"requests": "2.30.0"}},
	)

	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/w/requirements.txt"}, result.Report.Manifests)
	require.Equal(t, 1, result.Report.InstalledCount())
	// Whole-file installs pass the manifest through -r.
	require.Contains(t, runner.calls[len(runner.calls)-1], "-r")
}

func TestEnsurePipUnavailableIsFatal(t *testing.T) {
	runner := &fakePipRunner{versionErr: errors.New("python3: command not found")}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"requests"}}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{}},
	)

	_, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: testPolicy(),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "pip is not available")
	require.Empty(t, runner.installedTargets(), "no install is attempted without pip")
}

func TestEnsureConfirmDeclinedAborts(t *testing.T) {
	runner := &fakePipRunner{}
	service, reports := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"requests"}}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{}},
	)

	var shown Plan
	result, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:      []string{"/w"},
		Policy:     testPolicy(),
		ReportFile: "/tmp/report.json",
		Confirm: func(plan Plan) (bool, error) {
			shown = plan
			return false, nil
		},
	})
	require.NoError(t, err, "declining is not an error")
	require.True(t, result.Report.Aborted)
	require.Len(t, shown.Missing, 1)
	require.Empty(t, runner.installedTargets())
	require.Len(t, reports.reports, 1, "the report is still written")
	require.True(t, reports.reports[0].Aborted)
}

func TestEnsureSelfUpgradeRunsBeforeInstalls(t *testing.T) {
	runner := &fakePipRunner{}
	service, _ := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"requests"}}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{}},
	)

	policy := policies.DefaultInstallPolicy()
	_, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:  []string{"/w"},
		Policy: policy,
	})
	require.NoError(t, err)

	var sawUpgrade bool
	for _, args := range runner.calls {
		if len(args) > 1 && args[0] == "install" && args[1] == "--upgrade" {
			sawUpgrade = true
			break
		}
		if len(args) > 0 && args[0] == "install" {
			require.True(t, sawUpgrade || args[1] == "--upgrade", "self-upgrade must precede installs")
		}
	}
	require.True(t, sawUpgrade)
}

func TestEnsureValidation(t *testing.T) {
	service, _ := newTestService(&fakePipRunner{}, fakeWorkspace{}, fakeExtractor{}, fakeManifests{}, fakeProbe{})

	_, err := service.Ensure(context.Background(), EnsureRequest{Policy: testPolicy()})
	require.Error(t, err, "empty path list is rejected")

	badPolicy := testPolicy()
	badPolicy.MaxAttempts = 0
	_, err = service.Ensure(context.Background(), EnsureRequest{Paths: []string{"/w"}, Policy: badPolicy})
	require.Error(t, err)
}

func TestEnsureWritesReportFile(t *testing.T) {
	runner := &fakePipRunner{}
	service, reports := newTestService(
		runner,
		fakeWorkspace{inputs: types.Inputs{Scripts: []string{"/w/main.py"}}},
		fakeExtractor{imports: map[string][]string{"/w/main.py": {"requests"}}},
		fakeManifests{},
		fakeProbe{installed: map[string]string{}},
	)

	_, err := service.Ensure(context.Background(), EnsureRequest{
		Paths:      []string{"/w"},
		Policy:     testPolicy(),
		ReportFile: "/tmp/out.json",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/tmp/out.json"}, reports.paths)
	require.Equal(t, "2025-06-01T12:00:00Z", reports.reports[0].GeneratedAt)
}
