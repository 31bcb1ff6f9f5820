package ports

import "context"

// InstalledProbePort queries the environment's installed distributions.
// Keys of the returned map are PEP 503 normalized names.
type InstalledProbePort interface {
	InstalledPackages(ctx context.Context) (map[string]string, error)
}
