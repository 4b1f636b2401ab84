package cmd

import (
	"github.com/spf13/cobra"

	"k6lint.dev/pkg/k6lint/internal/domain"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old-reports-dir> <new-reports-dir>",
		Short: "Compare the findings of two saved reports",
		Long: `Print a unified diff between the findings of two reports directories,
for example the reports of a base branch and of a pull request.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Old: m.Path(args[0]),
				New: m.Path(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
