package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pipdeps/internal/ports"
	"pipdeps/internal/types"
)

// PipRunnerAdapter invokes pip through the configured Python
// interpreter ("python -m pip ..."), capturing exit status and standard
// error. A per-call timeout is enforced through the context; an elapsed
// timeout is reported in the result, not as an error.
type PipRunnerAdapter struct {
	Python string
}

func NewPipRunnerAdapter(python string) PipRunnerAdapter {
	if python == "" {
		python = "python3"
	}
	return PipRunnerAdapter{Python: python}
}

func (a PipRunnerAdapter) Run(ctx context.Context, timeout time.Duration, args ...string) (types.PipResult, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, a.Python, append([]string{"-m", "pip"}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := types.PipResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil || result.TimedOut {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// pip ran and failed; the exit code and stderr carry the story.
		return result, nil
	}
	return result, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("failed to invoke pip").
		WithCause(err)
}

var _ ports.PipRunnerPort = PipRunnerAdapter{}
