package ports

import (
	"context"
	"time"

	"pipdeps/internal/types"
)

// PipRunnerPort invokes the package manager. A non-zero exit status is
// reported through the result, not the error; the error is reserved for
// invocations that never ran (interpreter missing, spawn failure).
type PipRunnerPort interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) (types.PipResult, error)
}
