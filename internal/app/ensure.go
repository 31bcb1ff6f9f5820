package app

import (
	"context"
	"fmt"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pipdeps/internal/core"
	"pipdeps/internal/types"
)

const preflightTimeout = 15 * time.Second

// Ensure runs the full pipeline: expand inputs, extract and map
// imports, probe the environment, and install whatever is missing.
// Individual file or target failures are aggregated into the report;
// the returned error is reserved for fatal misconfiguration (no usable
// pip), cancellation, or the terminal "some installs failed" signal.
func (s Service) Ensure(ctx context.Context, req EnsureRequest) (EnsureResult, error) {
	if len(req.Paths) == 0 {
		return EnsureResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one file or directory path is required")
	}
	if err := req.Policy.Validate(); err != nil {
		return EnsureResult{}, err
	}

	result, err := s.analyze(ctx, req.Paths, req.Recursive, req.MappingFile)
	if err != nil {
		return EnsureResult{}, err
	}
	report := result.report

	if !result.plan.Pending() {
		log.Info().Msg("nothing to install")
		return s.finishEnsure(report, req.ReportFile)
	}

	// The package manager being unavailable is the only fatal error,
	// and it surfaces before any target is attempted.
	if err := s.checkPipAvailable(ctx); err != nil {
		return EnsureResult{}, err
	}

	if req.Confirm != nil {
		proceed, err := req.Confirm(result.plan)
		if err != nil {
			return EnsureResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("confirmation unavailable; re-run with --yes").
				WithCause(err)
		}
		if !proceed {
			log.Warn().Msg("installation aborted by user")
			report.Aborted = true
			return s.finishEnsure(report, req.ReportFile)
		}
	}

	installer := core.NewInstaller(s.Runner)
	installer.Markers = s.Markers
	if s.Sleep != nil {
		installer.Sleep = s.Sleep
	}

	if req.Policy.SelfUpgrade {
		installer.SelfUpgrade(ctx, req.Policy.SelfUpgradeTimeout)
	}
	s.emitInstallHints(result.plan.Missing)

	for _, manifest := range result.plan.Manifests {
		outcome, err := installer.Install(ctx, types.InstallJob{
			Target:      manifest,
			Kind:        types.TargetKindManifest,
			MaxAttempts: req.Policy.MaxAttempts,
			Timeout:     req.Policy.ManifestTimeout,
		})
		if err != nil {
			return EnsureResult{Report: report}, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	for _, spec := range result.plan.Missing {
		assert.NotEmpty(ctx, spec.Name, "package spec name must not be empty")
		outcome, err := installer.Install(ctx, types.InstallJob{
			Target:      spec.InstallTarget(),
			Kind:        types.TargetKindPackage,
			MaxAttempts: req.Policy.MaxAttempts,
			Timeout:     req.Policy.PackageTimeout,
		})
		if err != nil {
			return EnsureResult{Report: report}, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return s.finishEnsure(report, req.ReportFile)
}

// checkPipAvailable verifies that pip answers at all before the first
// install is attempted.
func (s Service) checkPipAvailable(ctx context.Context) error {
	result, err := s.Runner.Run(ctx, preflightTimeout, "--version")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("pip is not available on this system").
			WithCause(err)
	}
	if result.TimedOut || result.ExitCode != 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("pip is not available on this system")
	}
	log.Debug().Str("pip", result.Stdout).Msg("pip preflight ok")
	return nil
}

// finishEnsure writes the optional report file and converts failed
// outcomes into the terminal error the exit-code mapping understands.
func (s Service) finishEnsure(report types.Report, reportFile string) (EnsureResult, error) {
	if reportFile != "" {
		if err := s.Reports.WriteReport(reportFile, report); err != nil {
			log.Error().Str("file", reportFile).Err(err).Msg("failed to write report file")
		}
	}
	if failed := report.FailedCount(); failed > 0 {
		return EnsureResult{Report: report}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("install failures: %d target(s) could not be installed", failed))
	}
	return EnsureResult{Report: report}, nil
}
