package policies

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// InstallPolicy carries the retry and timeout budget applied to install
// jobs. Timeouts are per attempt, never per job.
type InstallPolicy struct {
	MaxAttempts        int
	PackageTimeout     time.Duration
	ManifestTimeout    time.Duration
	SelfUpgradeTimeout time.Duration
	SelfUpgrade        bool
}

// DefaultInstallPolicy returns the stock budget: three attempts, 90s per
// package attempt, 300s per manifest attempt, 60s for the optional pip
// self-upgrade.
func DefaultInstallPolicy() InstallPolicy {
	return InstallPolicy{
		MaxAttempts:        3,
		PackageTimeout:     90 * time.Second,
		ManifestTimeout:    300 * time.Second,
		SelfUpgradeTimeout: 60 * time.Second,
		SelfUpgrade:        true,
	}
}

// Validate rejects budgets that cannot drive the install loop.
func (p InstallPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("max attempts must be at least 1, got %d", p.MaxAttempts))
	}
	if p.PackageTimeout <= 0 || p.ManifestTimeout <= 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("per-attempt timeouts must be positive")
	}
	return nil
}

// buildToolchainPackages lists distributions that commonly compile
// native extensions during install. Used for advisory hints only.
var buildToolchainPackages = map[string]struct{}{
	"numpy":        {},
	"scipy":        {},
	"pandas":       {},
	"lxml":         {},
	"cryptography": {},
	"pyzmq":        {},
	"gevent":       {},
	"grpcio":       {},
	"libsass":      {},
}

// pgConfigPackages lists distributions that need the PostgreSQL
// development headers (pg_config) at build time.
var pgConfigPackages = map[string]struct{}{
	"psycopg2": {},
}

// NeedsBuildToolchain reports whether the normalized package name is
// known to compile native code during install.
func NeedsBuildToolchain(name string) bool {
	_, ok := buildToolchainPackages[name]
	return ok
}

// NeedsPgConfig reports whether the normalized package name is known to
// require pg_config during install.
func NeedsPgConfig(name string) bool {
	_, ok := pgConfigPackages[name]
	return ok
}
