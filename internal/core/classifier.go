package core

import (
	"strings"

	"pipdeps/internal/policies"
	"pipdeps/internal/types"
)

// ClassifyFailure maps an installer failure's diagnostic text to a
// known cause using the ordered marker table. The classification is
// advisory, surfaced to the user as a hint; it never changes retry
// behavior. Unmatched output yields FailureCauseUnknown.
func ClassifyFailure(stderr string, markers []policies.FailureMarker) types.FailureCause {
	haystack := strings.ToLower(stderr)
	for _, marker := range markers {
		for _, substring := range marker.Substrings {
			if substring == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(substring)) {
				return marker.Cause
			}
		}
	}
	return types.FailureCauseUnknown
}
