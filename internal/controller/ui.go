// Package controller provides output adapters for displaying analysis results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeReport StartMode = iota
	ModeScan
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithScanMode sets the UI to scan mode, where progress is reported before
// the final report.
func WithScanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeScan
	}
}

// WithReportMode sets the UI to display a finished result only.
func WithReportMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReport
	}
}

func applyStartOptions(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeReport}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying analysis results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayScanInfo(ctx context.Context, files int, threads int)
	DisplayReport(ctx context.Context, report m.Report) error
	DisplayDiff(ctx context.Context, diff string) error
	DisplayInspection(ctx context.Context, path m.Path, dump string) error
	DisplayRules(ctx context.Context, rules []m.RuleInfo) error
}

// NewUI returns the interactive TUI when output goes to a terminal and the
// plain SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SeverityOf maps a finding kind to the severity the sink reports it with.
func SeverityOf(kind m.FindingKind) m.Severity {
	switch kind {
	case m.MissingCheck, m.MissingTag, m.DuplicateTag:
		return m.SeverityError
	default:
		return m.SeverityWarning
	}
}
