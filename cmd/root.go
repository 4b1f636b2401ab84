// Package cmd provides the root command and CLI setup for k6lint.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"k6lint.dev/pkg/k6lint/internal/adapter"
	"k6lint.dev/pkg/k6lint/internal/controller"
	"k6lint.dev/pkg/k6lint/internal/domain"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// workflow is built on first use, after flags and config are resolved.
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var disabledDetectors []string

var verboseFlag bool

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...              recursively scan current directory
  - ./tests/...        recursively scan tests directory
  - ./smoke.js ./load  scan single scripts and directories`

const rootLongDescription = `k6lint statically analyzes k6 load-test scripts and reports constructs
that produce misleading or expensive tests: heavy work in the init
context, requests without checks, requests without unique name tags and
options without thresholds.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "k6lint",
		Short:         "Static analyzer for k6 load-test scripts",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			if workflow == nil {
				workflow = newWorkflow(cmd)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func newWorkflow(cmd *cobra.Command) domain.Workflow {
	ui := controller.NewUI(cmd.Root(), controller.IsTTY(os.Stdout))

	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewTreeSitterScriptAdapter(),
		adapter.NewReportStore(),
		adapter.NewFSNotifyScriptWatcher(viper.GetDuration(scanWatchDebounceConfigKey)),
		ui,
		domain.NewAnalyzer(ruleSettings(), viper.GetStringSlice(disabledConfigKey)...),
	)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"directory for analysis reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringArrayVar(&disabledDetectors, disableFlagName, viper.GetStringSlice(disabledConfigKey), "disable a detector by name (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(disableFlagName), disabledConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the command context so long-running commands such as
// scan --watch stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
