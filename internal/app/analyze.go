package app

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"pipdeps/internal/core"
	"pipdeps/internal/shared"
	"pipdeps/internal/types"
)

// analysis is the shared outcome of the extract/map/probe phases used
// by both Ensure and Scan.
type analysis struct {
	report            types.Report
	plan              Plan
	satisfiedManifest []string
}

// analyze expands the input paths, extracts imports, maps them to
// package names, probes the environment, and splits candidates into
// satisfied and missing. A single file's parse failure is recorded and
// never aborts the rest of the run.
func (s Service) analyze(ctx context.Context, paths []string, recursive bool, mappingFile string) (analysis, error) {
	out := analysis{}
	if s.Clock != nil {
		out.report.GeneratedAt = s.Clock().UTC().Format(time.RFC3339)
	}

	inputs, err := s.Workspace.FindInputs(paths, recursive)
	if err != nil {
		return analysis{}, err
	}
	out.report.InvalidPaths = inputs.Invalid
	for _, path := range inputs.Invalid {
		log.Warn().Str("path", path).Msg("ignoring unsupported or missing path")
	}

	mapper, err := s.loadMapper(mappingFile)
	if err != nil {
		return analysis{}, err
	}

	// Phase 1: extract import names across all scripts, preserving
	// discovery order for deterministic reporting.
	var importNames []string
	seenImports := map[string]struct{}{}
	for _, script := range inputs.Scripts {
		names, err := s.Extractor.ExtractImports(script)
		if err != nil {
			log.Warn().Str("file", script).Err(err).Msg("skipping unparseable file")
			out.report.ParseFailures = append(out.report.ParseFailures, types.FileIssue{
				File:   script,
				Reason: err.Error(),
			})
			continue
		}
		for _, name := range names {
			if _, ok := seenImports[name]; ok {
				continue
			}
			seenImports[name] = struct{}{}
			importNames = append(importNames, name)
		}
	}
	out.report.ImportsFound = len(importNames)

	// Phase 2: filter the standard library, then map import names to
	// installable package names.
	candidates := map[string]types.PackageSpec{}
	var candidateOrder []string
	for _, name := range importNames {
		if core.IsStdlibModule(name) {
			out.report.StdlibSkipped = append(out.report.StdlibSkipped, name)
			continue
		}
		packageName := mapper.Resolve(name)
		normalized := shared.NormalizePipName(packageName)
		if _, ok := candidates[normalized]; ok {
			continue
		}
		candidates[normalized] = types.PackageSpec{
			Name:   normalized,
			Raw:    packageName,
			Source: "imports",
		}
		candidateOrder = append(candidateOrder, normalized)
	}
	sort.Strings(candidateOrder)

	// Phase 3: probe once, fail closed. A probe error means every
	// candidate is treated as missing so installation is attempted
	// rather than silently skipped.
	installed, err := s.Probe.InstalledPackages(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("installed-package probe failed; assuming nothing is installed")
		installed = map[string]string{}
	}

	for _, name := range candidateOrder {
		spec := candidates[name]
		if version, ok := installed[name]; ok {
			out.report.Satisfied = append(out.report.Satisfied, types.SatisfiedPackage{
				Name:    name,
				Version: version,
			})
			log.Info().Str("package", name).Str("version", version).Msg("already installed")
			continue
		}
		log.Info().Str("package", name).Msg("installation needed")
		out.report.Missing = append(out.report.Missing, spec)
	}
	out.plan.Missing = out.report.Missing

	// Phase 4: manifests. A manifest whose every entry is already
	// satisfied (names installed, pins met) needs no job; anything else
	// is installed as a single whole-file job.
	for _, manifest := range inputs.Manifests {
		specs, err := s.Manifests.ReadManifest(manifest)
		if err != nil {
			out.report.ParseFailures = append(out.report.ParseFailures, types.FileIssue{
				File:   manifest,
				Reason: err.Error(),
			})
			continue
		}
		if len(specs) > 0 && manifestSatisfied(specs, installed) {
			log.Info().Str("manifest", manifest).Msg("all manifest entries already satisfied")
			out.satisfiedManifest = append(out.satisfiedManifest, manifest)
			continue
		}
		out.report.Manifests = append(out.report.Manifests, manifest)
	}
	out.plan.Manifests = out.report.Manifests

	return out, nil
}

// loadMapper merges the default mapping table with the user's file.
// A broken mapping file degrades to the defaults with a warning, the
// same way a missing one does.
func (s Service) loadMapper(mappingFile string) (core.Mapper, error) {
	user, err := s.Mapping.LoadUserMapping(mappingFile)
	if err != nil {
		log.Warn().Str("file", mappingFile).Err(err).Msg("ignoring unusable mapping file")
		user = nil
	}
	if len(user) > 0 {
		log.Debug().Int("entries", len(user)).Msg("loaded user mapping")
	}
	return core.NewMapper(user), nil
}

// manifestSatisfied reports whether every manifest entry is installed
// at a version meeting its pin.
func manifestSatisfied(specs []types.PackageSpec, installed map[string]string) bool {
	for _, spec := range specs {
		version, ok := installed[spec.Name]
		if !ok {
			return false
		}
		if !core.PinSatisfied(string(spec.Op), spec.Version, version) {
			return false
		}
	}
	return true
}
