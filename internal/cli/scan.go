package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pipdeps/internal/app"
	"pipdeps/internal/types"
)

type scanOptions struct {
	Recursive   bool
	MappingFile string
	Python      string
	ReportFile  string
}

func newScanCommand() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report which dependencies are missing without installing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringVar(&opts.MappingFile, "mapping-file", "", "Import-to-package mapping file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Python, "python", "python3", "Python interpreter to drive pip through")
	cmd.Flags().StringVar(&opts.ReportFile, "report", "", "Write a JSON run report to this path")

	_ = viper.BindPFlag("recursive", cmd.Flags().Lookup("recursive"))
	_ = viper.BindPFlag("mapping_file", cmd.Flags().Lookup("mapping-file"))
	_ = viper.BindPFlag("python", cmd.Flags().Lookup("python"))
	_ = viper.BindPFlag("report_file", cmd.Flags().Lookup("report"))

	return cmd
}

func runScan(ctx context.Context, cmd *cobra.Command, opts scanOptions, paths []string) error {
	service := newAppService(resolveString(cmd, opts.Python, "python", "python"))
	result, err := service.Scan(ctx, app.ScanRequest{
		Paths:       paths,
		Recursive:   resolveBool(cmd, opts.Recursive, "recursive", "recursive"),
		MappingFile: resolveString(cmd, opts.MappingFile, "mapping_file", "mapping-file"),
		ReportFile:  resolveString(cmd, opts.ReportFile, "report_file", "report"),
	})
	if err != nil {
		return err
	}
	printSummary(result.Report)
	return nil
}

// printSummary renders a short human-readable digest of a run report.
func printSummary(report types.Report) {
	fmt.Printf("imports found: %d, stdlib skipped: %d, satisfied: %d\n",
		report.ImportsFound, len(report.StdlibSkipped), len(report.Satisfied))
	if len(report.Missing) > 0 {
		names := make([]string, 0, len(report.Missing))
		for _, spec := range report.Missing {
			names = append(names, spec.Name)
		}
		fmt.Printf("missing: %s\n", strings.Join(names, ", "))
	}
	if len(report.Manifests) > 0 {
		fmt.Printf("requirements files pending: %s\n", strings.Join(report.Manifests, ", "))
	}
	if len(report.Outcomes) > 0 {
		fmt.Printf("installed: %d, failed: %d\n", report.InstalledCount(), report.FailedCount())
		for _, outcome := range report.FailedOutcomes() {
			fmt.Printf("  failed: %s (%s, %d attempt(s))\n", outcome.Target, outcome.Cause, outcome.Attempts)
		}
	}
	if report.Aborted {
		fmt.Println("aborted before installation")
	}
}
