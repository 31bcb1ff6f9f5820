package policies

import "pipdeps/internal/types"

// FailureMarker maps diagnostic-text substrings to a classified cause.
// Matching is case-insensitive; markers are evaluated in order and the
// first hit wins, so more specific markers must precede generic ones.
type FailureMarker struct {
	Substrings []string
	Cause      types.FailureCause
}

// DefaultFailureMarkers returns the built-in classification table.
// The table is data, not control flow: callers may append their own
// markers for system dependencies the defaults do not know about.
func DefaultFailureMarkers() []FailureMarker {
	return []FailureMarker{
		{
			Substrings: []string{"pg_config executable not found"},
			Cause:      types.FailureCauseSystemLibrary,
		},
		{
			Substrings: []string{"-config not found", "-config: not found"},
			Cause:      types.FailureCauseSystemLibrary,
		},
		{
			Substrings: []string{
				"permission denied",
				"errno 13",
				"access is denied",
			},
			Cause: types.FailureCausePermission,
		},
		{
			Substrings: []string{
				"failed building wheel",
				"microsoft visual c++",
				"command 'gcc' failed",
				"command 'clang' failed",
				"unable to execute 'gcc'",
				"unable to execute 'clang'",
				"error: command",
			},
			Cause: types.FailureCauseBuildToolchain,
		},
		{
			Substrings: []string{
				"network is unreachable",
				"connection timed out",
				"connection refused",
				"could not resolve host",
				"temporary failure in name resolution",
				"read timed out",
				"proxy error",
				"ssl:",
				"tls ",
				"newconnectionerror",
			},
			Cause: types.FailureCauseNetwork,
		},
	}
}
