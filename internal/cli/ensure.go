package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pipdeps/internal/app"
	"pipdeps/internal/policies"
)

type ensureOptions struct {
	Recursive             bool
	MappingFile           string
	Retries               int
	PackageTimeoutSec     int
	ManifestTimeoutSec    int
	SelfUpgradeTimeoutSec int
	SkipPipUpgrade        bool
	AssumeYes             bool
	Python                string
	ReportFile            string
}

func newEnsureCommand() *cobra.Command {
	opts := ensureOptions{}
	cmd := &cobra.Command{
		Use:   "ensure [paths...]",
		Short: "Install every missing package the given sources depend on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsure(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringVar(&opts.MappingFile, "mapping-file", "", "Import-to-package mapping file (JSON or YAML)")
	cmd.Flags().IntVar(&opts.Retries, "retries", 3, "Attempts per install target")
	cmd.Flags().IntVar(&opts.PackageTimeoutSec, "package-timeout", 90, "Per-attempt timeout for single packages (seconds)")
	cmd.Flags().IntVar(&opts.ManifestTimeoutSec, "manifest-timeout", 300, "Per-attempt timeout for requirements files (seconds)")
	cmd.Flags().IntVar(&opts.SelfUpgradeTimeoutSec, "self-upgrade-timeout", 60, "Timeout for the pip self-upgrade (seconds)")
	cmd.Flags().BoolVar(&opts.SkipPipUpgrade, "skip-pip-upgrade", false, "Do not upgrade pip before installing")
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "Install without asking for confirmation")
	cmd.Flags().StringVar(&opts.Python, "python", "python3", "Python interpreter to drive pip through")
	cmd.Flags().StringVar(&opts.ReportFile, "report", "", "Write a JSON run report to this path")

	_ = viper.BindPFlag("recursive", cmd.Flags().Lookup("recursive"))
	_ = viper.BindPFlag("mapping_file", cmd.Flags().Lookup("mapping-file"))
	_ = viper.BindPFlag("retries", cmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("package_timeout_sec", cmd.Flags().Lookup("package-timeout"))
	_ = viper.BindPFlag("manifest_timeout_sec", cmd.Flags().Lookup("manifest-timeout"))
	_ = viper.BindPFlag("self_upgrade_timeout_sec", cmd.Flags().Lookup("self-upgrade-timeout"))
	_ = viper.BindPFlag("skip_pip_upgrade", cmd.Flags().Lookup("skip-pip-upgrade"))
	_ = viper.BindPFlag("assume_yes", cmd.Flags().Lookup("yes"))
	_ = viper.BindPFlag("python", cmd.Flags().Lookup("python"))
	_ = viper.BindPFlag("report_file", cmd.Flags().Lookup("report"))

	return cmd
}

func runEnsure(ctx context.Context, cmd *cobra.Command, opts ensureOptions, paths []string) error {
	policy := policies.DefaultInstallPolicy()
	policy.MaxAttempts = resolveInt(cmd, opts.Retries, "retries", "retries")
	policy.PackageTimeout = time.Duration(resolveInt(cmd, opts.PackageTimeoutSec, "package_timeout_sec", "package-timeout")) * time.Second
	policy.ManifestTimeout = time.Duration(resolveInt(cmd, opts.ManifestTimeoutSec, "manifest_timeout_sec", "manifest-timeout")) * time.Second
	policy.SelfUpgradeTimeout = time.Duration(resolveInt(cmd, opts.SelfUpgradeTimeoutSec, "self_upgrade_timeout_sec", "self-upgrade-timeout")) * time.Second
	policy.SelfUpgrade = !resolveBool(cmd, opts.SkipPipUpgrade, "skip_pip_upgrade", "skip-pip-upgrade")

	var confirm func(plan app.Plan) (bool, error)
	if !resolveBool(cmd, opts.AssumeYes, "assume_yes", "yes") {
		confirm = promptConfirm
	}

	service := newAppService(resolveString(cmd, opts.Python, "python", "python"))
	result, err := service.Ensure(ctx, app.EnsureRequest{
		Paths:       paths,
		Recursive:   resolveBool(cmd, opts.Recursive, "recursive", "recursive"),
		MappingFile: resolveString(cmd, opts.MappingFile, "mapping_file", "mapping-file"),
		Policy:      policy,
		ReportFile:  resolveString(cmd, opts.ReportFile, "report_file", "report"),
		Confirm:     confirm,
	})
	printSummary(result.Report)
	return err
}

// promptConfirm shows the pending work and reads a yes/no answer from
// stdin.
func promptConfirm(plan app.Plan) (bool, error) {
	if len(plan.Missing) > 0 {
		fmt.Println("Packages to install:")
		for _, spec := range plan.Missing {
			fmt.Printf("  %s\n", spec.InstallTarget())
		}
	}
	if len(plan.Manifests) > 0 {
		fmt.Println("Requirements files to install:")
		for _, manifest := range plan.Manifests {
			fmt.Printf("  %s\n", manifest)
		}
	}
	fmt.Print("Proceed? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
