package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"k6lint.dev/pkg/k6lint/internal/adapter"
	"k6lint.dev/pkg/k6lint/internal/controller"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

// ErrFindingsReported is returned by Scan when findings exist and the caller
// asked the scan to fail on them.
var ErrFindingsReported = errors.New("findings reported")

// ErrUnsupportedLanguage is returned by Inspect for files no grammar covers.
var ErrUnsupportedLanguage = errors.New("unsupported script language")

// ScanArgs contains the arguments for analyzing a batch of scripts.
type ScanArgs struct {
	Paths          []m.Path
	Exclude        []string
	Reports        m.Path
	Threads        int
	Formats        []m.ReportFormat
	FailOnFindings bool
}

// ViewArgs contains the arguments for displaying a saved report.
type ViewArgs struct {
	Reports m.Path
}

// DiffArgs names the two report directories to compare.
type DiffArgs struct {
	Old m.Path
	New m.Path
}

// InspectArgs names the script whose structure is dumped.
type InspectArgs struct {
	Path m.Path
}

// Workflow defines the interface for the analysis workflow.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	Watch(ctx context.Context, args ScanArgs) error
	View(ctx context.Context, args ViewArgs) error
	Diff(ctx context.Context, args DiffArgs) error
	Inspect(ctx context.Context, args InspectArgs) error
	ListRules(ctx context.Context) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ScriptFileAdapter
	adapter.ReportStore
	adapter.ScriptWatcher
	controller.UI
	Analyzer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	scriptAdapter adapter.ScriptFileAdapter,
	reportStore adapter.ReportStore,
	watcher adapter.ScriptWatcher,
	ui controller.UI,
	analyzer Analyzer,
) Workflow {
	return &workflow{
		SourceFSAdapter:   fsAdapter,
		ScriptFileAdapter: scriptAdapter,
		ReportStore:       reportStore,
		ScriptWatcher:     watcher,
		UI:                ui,
		Analyzer:          analyzer,
	}
}

func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	sources, err := w.Get(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("get sources: %w", err)
	}

	threads := args.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if err := w.Start(ctx, controller.WithScanMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}

	w.DisplayScanInfo(ctx, len(sources), threads)

	files, err := w.analyzeAll(ctx, sources, threads)
	if err != nil {
		w.Close(ctx)
		return fmt.Errorf("analyze sources: %w", err)
	}

	report := m.NewReport(files)

	if err := w.SaveReport(args.Reports, report, args.Formats...); err != nil {
		w.Close(ctx)
		return fmt.Errorf("save report: %w", err)
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		w.Close(ctx)
		return fmt.Errorf("display report: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	if args.FailOnFindings && report.Summary.Findings > 0 {
		return fmt.Errorf("%w: %d finding(s) in %d file(s)", ErrFindingsReported, report.Summary.Findings, report.Summary.Files)
	}

	return nil
}

// analyzeAll analyzes sources in parallel. Each result lands in the slot of
// its source, so the output order follows the input order.
func (w *workflow) analyzeAll(ctx context.Context, sources []m.Source, threads int) ([]m.FileReport, error) {
	files := make([]m.FileReport, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			files[i] = w.analyzeFile(groupCtx, source)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func (w *workflow) analyzeFile(ctx context.Context, source m.Source) m.FileReport {
	path := source.Origin.ShortPath

	file := m.FileReport{
		Path:     path,
		Hash:     source.Origin.Hash,
		Findings: []m.Finding{},
	}

	if file.Hash == "" {
		if hash, err := w.HashFile(source.Origin.FullPath); err == nil {
			file.Hash = hash
		}
	}

	src, err := w.ReadFile(source.Origin.FullPath)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read script", "path", path, "error", err)

		file.Error = err.Error()

		return file
	}

	tree, err := w.Parse(ctx, path, source.Language, src)
	if err != nil {
		slog.WarnContext(ctx, "Failed to parse script", "path", path, "error", err)

		file.Error = err.Error()

		return file
	}

	file.Findings = w.Analyze(ctx, tree)

	slog.DebugContext(ctx, "Analyzed file", "path", path, "findings", len(file.Findings), "byKind", Summarize(file.Findings))

	return file
}

// Watch scans once, then rescans whenever a script under args.Paths changes,
// until ctx is done. Findings never end the loop.
func (w *workflow) Watch(ctx context.Context, args ScanArgs) error {
	args.FailOnFindings = false

	if err := w.Scan(ctx, args); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Watching scripts", "paths", args.Paths)

	err := w.ScriptWatcher.Watch(ctx, args.Paths, func(changed []m.Path) {
		slog.InfoContext(ctx, "Scripts changed", "paths", changed)

		if err := w.Scan(ctx, args); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "Rescan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch scripts: %w", err)
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, controller.WithReportMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}

	defer w.Close(ctx)

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display report: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	before, err := w.LoadReport(args.Old)
	if err != nil {
		return fmt.Errorf("load %s: %w", args.Old, err)
	}

	after, err := w.LoadReport(args.New)
	if err != nil {
		return fmt.Errorf("load %s: %w", args.New, err)
	}

	diff, err := DiffReports(before, after, string(args.Old), string(args.New))
	if err != nil {
		return err
	}

	return w.DisplayDiff(ctx, diff)
}

func (w *workflow) Inspect(ctx context.Context, args InspectArgs) error {
	lang, ok := m.LanguageOf(args.Path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, args.Path)
	}

	src, err := w.ReadFile(args.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Path, err)
	}

	tree, err := w.Parse(ctx, args.Path, lang, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args.Path, err)
	}

	dump, err := yaml.Marshal(InspectTree(tree, w.Settings()))
	if err != nil {
		return fmt.Errorf("encode inspection: %w", err)
	}

	return w.DisplayInspection(ctx, args.Path, string(dump))
}

func (w *workflow) ListRules(ctx context.Context) error {
	return w.DisplayRules(ctx, w.Rules())
}

// DiffReports renders a unified diff of the finding lines of two reports.
// An empty string means both reports hold the same findings.
func DiffReports(before, after m.Report, fromName, toName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        reportLines(before),
		B:        reportLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  2,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff reports: %w", err)
	}

	return text, nil
}

func reportLines(report m.Report) []string {
	var lines []string

	for _, file := range report.Files {
		if file.Error != "" {
			lines = append(lines, fmt.Sprintf("%s: error: %s\n", file.Path, file.Error))
			continue
		}

		for _, f := range file.Findings {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: [%s] %s\n",
				file.Path, f.Location.Line, f.Location.Column, f.Kind, f.Message))
		}
	}

	return lines
}
