package ports

import "pipdeps/internal/types"

// WorkspacePort expands file and directory arguments into the supported
// input files.
type WorkspacePort interface {
	FindInputs(paths []string, recursive bool) (types.Inputs, error)
}
