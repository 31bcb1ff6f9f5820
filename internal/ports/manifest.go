package ports

import "pipdeps/internal/types"

// ManifestPort reads a pinned-package manifest (requirements.txt style)
// into an ordered sequence of package specs.
type ManifestPort interface {
	ReadManifest(path string) ([]types.PackageSpec, error)
}
