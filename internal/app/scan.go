package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// Scan runs the analysis phases without touching the environment:
// inputs are expanded, imports extracted and mapped, the installed set
// probed, and the result reported. No install job is ever created.
func (s Service) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	if len(req.Paths) == 0 {
		return ScanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one file or directory path is required")
	}

	result, err := s.analyze(ctx, req.Paths, req.Recursive, req.MappingFile)
	if err != nil {
		return ScanResult{}, err
	}

	if !result.plan.Pending() {
		log.Info().Msg("environment satisfies every discovered dependency")
	} else {
		log.Info().
			Int("packages", len(result.plan.Missing)).
			Int("manifests", len(result.plan.Manifests)).
			Msg("installation would be needed")
	}

	if req.ReportFile != "" {
		if err := s.Reports.WriteReport(req.ReportFile, result.report); err != nil {
			log.Error().Str("file", req.ReportFile).Err(err).Msg("failed to write report file")
		}
	}
	return ScanResult{Report: result.report}, nil
}
