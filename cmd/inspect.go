package cmd

import (
	"github.com/spf13/cobra"

	"k6lint.dev/pkg/k6lint/internal/domain"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// inspectCmd represents the inspect command.
var inspectCmd = newInspectCmd()

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <script>",
		Short: "Dump the structure the detectors see in one script",
		Long: `Print, as YAML, the exported options, scenarios, thresholds, target
functions, lifecycle hooks, classified imports and init-region statements
of a single script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Inspect(cmd.Context(), domain.InspectArgs{Path: m.Path(args[0])})
		},
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
