package core

import (
	"context"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"pipdeps/internal/policies"
	"pipdeps/internal/ports"
	"pipdeps/internal/types"
)

const (
	backoffBase = 5 * time.Second
	backoffCap  = 60 * time.Second
)

// Installer drives the retry loop around pip invocations. Retries use
// an exponential delay schedule (base 5s, factor 2, capped at 60s, no
// jitter). The sleeper is injectable so tests observe delays without
// wall-clock waits.
type Installer struct {
	Runner  ports.PipRunnerPort
	Markers []policies.FailureMarker
	Sleep   func(ctx context.Context, delay time.Duration) error
}

// NewInstaller returns an installer with the default marker table and a
// context-aware sleeper.
func NewInstaller(runner ports.PipRunnerPort) Installer {
	return Installer{
		Runner:  runner,
		Markers: policies.DefaultFailureMarkers(),
		Sleep:   sleepContext,
	}
}

// Install runs one install job to its terminal outcome. Every attempt
// failure (non-zero exit, per-attempt timeout, spawn error) consumes
// one attempt from the budget; remaining attempts wait out the backoff
// delay first. The returned error is non-nil only when the surrounding
// context was cancelled, in which case no further attempt was started.
func (i Installer) Install(ctx context.Context, job types.InstallJob) (types.Outcome, error) {
	assert.NotEmpty(ctx, job.Target, "install target must not be empty")
	assert.NotEmpty(ctx, string(job.Kind), "install job kind must be set")

	schedule := newBackoffSchedule()
	var lastStderr string

	for attempt := 1; attempt <= job.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.Outcome{}, err
		}
		log.Info().
			Str("target", job.Target).
			Int("attempt", attempt).
			Int("max_attempts", job.MaxAttempts).
			Msg("installing")

		result, err := i.Runner.Run(ctx, job.Timeout, installArgs(job)...)
		switch {
		case err != nil:
			lastStderr = err.Error()
			log.Error().
				Str("target", job.Target).
				Int("attempt", attempt).
				Err(err).
				Msg("pip invocation failed")
		case result.TimedOut:
			lastStderr = result.Stderr
			log.Error().
				Str("target", job.Target).
				Int("attempt", attempt).
				Dur("timeout", job.Timeout).
				Msg("install attempt timed out")
		case result.ExitCode == 0:
			log.Info().
				Str("target", job.Target).
				Int("attempts", attempt).
				Msg("installed")
			return types.Outcome{
				Target:   job.Target,
				Kind:     job.Kind,
				Success:  true,
				Attempts: attempt,
			}, nil
		default:
			lastStderr = result.Stderr
			log.Error().
				Str("target", job.Target).
				Int("attempt", attempt).
				Int("exit_code", result.ExitCode).
				Msg("install attempt failed")
		}

		if attempt < job.MaxAttempts {
			delay := schedule.NextBackOff()
			log.Warn().
				Str("target", job.Target).
				Dur("delay", delay).
				Msg("waiting before retry")
			if err := i.Sleep(ctx, delay); err != nil {
				return types.Outcome{}, err
			}
		}
	}

	cause := ClassifyFailure(lastStderr, i.Markers)
	log.Error().
		Str("target", job.Target).
		Int("attempts", job.MaxAttempts).
		Str("cause", string(cause)).
		Msg("install failed after all attempts")
	return types.Outcome{
		Target:   job.Target,
		Kind:     job.Kind,
		Success:  false,
		Cause:    cause,
		Attempts: job.MaxAttempts,
	}, nil
}

// SelfUpgrade tries to upgrade pip itself. Failure is logged and
// swallowed: the run proceeds with the existing pip version.
func (i Installer) SelfUpgrade(ctx context.Context, timeout time.Duration) {
	log.Info().Msg("checking for pip upgrade")
	result, err := i.Runner.Run(ctx, timeout,
		"install", "--upgrade", "pip", "--disable-pip-version-check")
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("pip self-upgrade could not run")
	case result.TimedOut:
		log.Warn().Dur("timeout", timeout).Msg("pip self-upgrade timed out")
	case result.ExitCode != 0:
		log.Warn().Int("exit_code", result.ExitCode).Msg("pip self-upgrade failed")
	default:
		log.Info().Msg("pip is up to date")
	}
}

// installArgs builds the pip argument list for a job: a bare install
// for packages, "-r" for whole manifests.
func installArgs(job types.InstallJob) []string {
	args := []string{"install", "--disable-pip-version-check"}
	if job.Kind == types.TargetKindManifest {
		return append(args, "-r", job.Target)
	}
	return append(args, job.Target)
}

// newBackoffSchedule builds the deterministic delay sequence 5s, 10s,
// 20s, ... capped at 60s. Randomization is disabled so the schedule is
// reproducible and testable.
func newBackoffSchedule() *backoff.ExponentialBackOff {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = backoffBase
	schedule.Multiplier = 2
	schedule.MaxInterval = backoffCap
	schedule.RandomizationFactor = 0
	schedule.MaxElapsedTime = 0
	schedule.Reset()
	return schedule
}

// sleepContext waits for the delay or the context, whichever ends
// first.
func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
