package adapters

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/ports"
	"pipdeps/internal/shared"
)

const probeTimeout = 30 * time.Second

// InstalledProbeAdapter reads the environment's installed distributions
// through "pip list --format=json". Names are normalized per PEP 503 so
// probes agree regardless of case or hyphen/underscore spelling.
type InstalledProbeAdapter struct {
	Runner ports.PipRunnerPort
}

func NewInstalledProbeAdapter(runner ports.PipRunnerPort) InstalledProbeAdapter {
	return InstalledProbeAdapter{Runner: runner}
}

func (a InstalledProbeAdapter) InstalledPackages(ctx context.Context) (map[string]string, error) {
	result, err := a.Runner.Run(ctx, probeTimeout,
		"list", "--format=json", "--disable-pip-version-check")
	if err != nil {
		return nil, err
	}
	if result.TimedOut || result.ExitCode != 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("pip list failed").
			WithCause(errbuilder.New().WithMsg(shared.Truncate(result.Stderr, 400)))
	}

	var entries []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	// pip may prepend warnings before the JSON document.
	payload := result.Stdout
	if idx := strings.Index(payload, "["); idx > 0 {
		payload = payload[idx:]
	}
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse pip list output").
			WithCause(err)
	}

	installed := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		installed[shared.NormalizePipName(entry.Name)] = entry.Version
	}
	return installed, nil
}

var _ ports.InstalledProbePort = InstalledProbeAdapter{}
