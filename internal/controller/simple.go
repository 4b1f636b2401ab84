package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

const noDifferences = "No differences.\n"

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayScanInfo announces how many scripts are analyzed and how.
func (s *SimpleUI) DisplayScanInfo(ctx context.Context, files int, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Analyzing %d script(s) with %d worker(s)\n", files, threads)
}

// DisplayReport prints the per-file summary table followed by every finding.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(report))

	for _, line := range findingLines(report) {
		s.printf("%s\n", line)
	}

	return nil
}

// DisplayDiff prints a unified diff between two reports.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf(noDifferences)
		return nil
	}

	s.printf("%s", diff)

	return nil
}

// DisplayInspection prints the structural dump of one script.
func (s *SimpleUI) DisplayInspection(ctx context.Context, path m.Path, dump string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("# %s\n%s", path, dump)

	return nil
}

// DisplayRules prints the detector table.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []m.RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderRulesTable(rules))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

type severityCount struct {
	errors   int
	warnings int
}

func countSeverities(findings []m.Finding) severityCount {
	var c severityCount

	for _, f := range findings {
		if SeverityOf(f.Kind) == m.SeverityError {
			c.errors++
		} else {
			c.warnings++
		}
	}

	return c
}

func fileStatus(file m.FileReport) string {
	switch {
	case file.Error != "":
		return "parse error"
	case len(file.Findings) == 0:
		return "ok"
	default:
		return "findings"
	}
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Errors", "Warnings", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	var total severityCount

	for _, file := range report.Files {
		c := countSeverities(file.Findings)
		total.errors += c.errors
		total.warnings += c.warnings

		table.Append([]string{
			string(file.Path),
			fmt.Sprintf("%d", c.errors),
			fmt.Sprintf("%d", c.warnings),
			fileStatus(file),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", report.Summary.Files),
		fmt.Sprintf("%d", total.errors),
		fmt.Sprintf("%d", total.warnings),
		fmt.Sprintf("%d unreadable", report.Summary.FilesWithErrors),
	})

	table.Render()

	return tableBuffer.String()
}

func renderRulesTable(rules []m.RuleInfo) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Kinds", "Enabled", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, rule := range rules {
		kinds := make([]string, 0, len(rule.Kinds))
		for _, k := range rule.Kinds {
			kinds = append(kinds, string(k))
		}

		enabled := "yes"
		if !rule.Enabled {
			enabled = "no"
		}

		table.Append([]string{rule.Name, strings.Join(kinds, ", "), enabled, rule.Description})
	}

	table.Render()

	return tableBuffer.String()
}

// findingLines renders one line per finding, and one per unreadable file,
// in report order.
func findingLines(report m.Report) []string {
	var lines []string

	for _, file := range report.Files {
		if file.Error != "" {
			lines = append(lines, fmt.Sprintf("%s: error: %s", file.Path, file.Error))
			continue
		}

		for _, f := range file.Findings {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s: [%s] %s",
				file.Path, f.Location.Line, f.Location.Column, SeverityOf(f.Kind), f.Kind, f.Message))
		}
	}

	return lines
}
