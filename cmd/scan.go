package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"k6lint.dev/pkg/k6lint/internal/domain"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

const scanLongDescription = `Analyze k6 scripts under the given paths (default: current directory),
save the report to the output directory and display it. With --watch the
scan repeats whenever a script changes, until interrupted.

` + pathPatternsHelp

var scanParallelFlag int
var scanFormatFlag []string
var failOnFindingsFlag bool
var scanWatchFlag bool

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Analyze k6 scripts",
		Long:  scanLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(viper.GetStringSlice(scanFormatsConfigKey))
			if err != nil {
				return err
			}

			scanArgs := domain.ScanArgs{
				Paths:          parsePaths(args),
				Exclude:        viper.GetStringSlice(excludeConfigKey),
				Reports:        m.Path(viper.GetString(outputFlagName)),
				Threads:        viper.GetInt(scanParallelConfigKey),
				Formats:        formats,
				FailOnFindings: viper.GetBool(failOnFindingsConfigKey),
			}

			if viper.GetBool(scanWatchConfigKey) {
				return workflow.Watch(cmd.Context(), scanArgs)
			}

			return workflow.Scan(cmd.Context(), scanArgs)
		},
	}

	configureScanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&scanParallelFlag, scanParallelFlagName, "p", viper.GetInt(scanParallelConfigKey), "number of parallel workers (0 uses every CPU)")
	bindFlagToConfig(cmd.Flags().Lookup(scanParallelFlagName), scanParallelConfigKey)

	cmd.Flags().StringArrayVarP(&scanFormatFlag, scanFormatFlagName, "f", viper.GetStringSlice(scanFormatsConfigKey), "report format to write: json, yaml or csv (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(scanFormatFlagName), scanFormatsConfigKey)

	cmd.Flags().BoolVar(&failOnFindingsFlag, failOnFindingsFlagName, viper.GetBool(failOnFindingsConfigKey), "exit with an error when any finding is reported")
	bindFlagToConfig(cmd.Flags().Lookup(failOnFindingsFlagName), failOnFindingsConfigKey)

	cmd.Flags().BoolVarP(&scanWatchFlag, scanWatchFlagName, "w", viper.GetBool(scanWatchConfigKey), "rescan whenever a script changes, until interrupted")
	bindFlagToConfig(cmd.Flags().Lookup(scanWatchFlagName), scanWatchConfigKey)
}

func parseFormats(values []string) ([]m.ReportFormat, error) {
	formats := make([]m.ReportFormat, 0, len(values))

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			format := m.ReportFormat(strings.ToLower(strings.TrimSpace(part)))

			switch format {
			case "":
				continue
			case m.FormatJSON, m.FormatYAML, m.FormatCSV:
				formats = append(formats, format)
			default:
				return nil, fmt.Errorf("unknown report format %q (want json, yaml or csv)", part)
			}
		}
	}

	return formats, nil
}
