package app

import (
	"runtime"

	"github.com/rs/zerolog/log"

	"pipdeps/internal/policies"
	"pipdeps/internal/types"
)

// emitInstallHints warns ahead of time when a pending package is known
// to compile native code and the host is missing the tools it needs.
// Hints are advisory: installation proceeds regardless.
func (s Service) emitInstallHints(missing []types.PackageSpec) {
	if s.LookPath == nil {
		return
	}

	var needsCompiler, needsPgConfig []string
	for _, spec := range missing {
		if policies.NeedsBuildToolchain(spec.Name) {
			needsCompiler = append(needsCompiler, spec.Name)
		}
		if policies.NeedsPgConfig(spec.Name) {
			needsPgConfig = append(needsPgConfig, spec.Name)
		}
	}

	if len(needsCompiler) > 0 && !s.hasCompiler() {
		log.Warn().
			Strs("packages", needsCompiler).
			Msg(compilerHint())
	}
	if len(needsPgConfig) > 0 {
		if _, err := s.LookPath("pg_config"); err != nil {
			log.Warn().
				Strs("packages", needsPgConfig).
				Msg("pg_config not found; install the PostgreSQL development package (e.g. libpq-dev) before these packages can build")
		}
	}
}

// hasCompiler reports whether any known C compiler is on PATH.
func (s Service) hasCompiler() bool {
	candidates := []string{"cc", "gcc", "clang"}
	if runtime.GOOS == "windows" {
		candidates = []string{"cl.exe", "gcc", "clang"}
	}
	for _, name := range candidates {
		if _, err := s.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func compilerHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "no C compiler found; run 'xcode-select --install' in case these packages need to build from source"
	case "windows":
		return "no C compiler found; install the Microsoft C++ Build Tools in case these packages need to build from source"
	default:
		return "no C compiler found; install build-essential (or your distribution's equivalent) in case these packages need to build from source"
	}
}
