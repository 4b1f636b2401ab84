package domain

import (
	"bytes"
	"context"
	"path"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k6lint.dev/pkg/k6lint/internal/adapter"
	"k6lint.dev/pkg/k6lint/internal/controller"
	m "k6lint.dev/pkg/k6lint/internal/model"
)

func TestExamplesIntegration(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	store := adapter.NewReportStore()
	reports := m.Path(t.TempDir())

	wf := NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewTreeSitterScriptAdapter(),
		store,
		adapter.NewFSNotifyScriptWatcher(0),
		controller.NewSimpleUI(cmd),
		NewAnalyzer(m.DefaultRuleSettings()),
	)

	err := wf.Scan(context.Background(), ScanArgs{
		Paths:   []m.Path{"../../examples/..."},
		Reports: reports,
		Threads: 4,
		Formats: []m.ReportFormat{m.FormatCSV},
	})
	require.NoError(t, err)

	report, err := store.LoadReport(reports)
	require.NoError(t, err)

	kinds := map[string][]m.FindingKind{}
	errs := map[string]string{}

	for _, file := range report.Files {
		name := path.Base(string(file.Path))
		errs[name] = file.Error

		kinds[name] = []m.FindingKind{}
		for _, f := range file.Findings {
			kinds[name] = append(kinds[name], f.Kind)
		}
	}

	require.Len(t, report.Files, 7)

	assert.Contains(t, errs["broken.js"], "parse failure")
	assert.Empty(t, kinds["broken.js"])

	assert.Empty(t, kinds["clean.js"])
	assert.Equal(t, []m.FindingKind{
		m.JSONParseInInit,
		m.FileOperationInInit,
		m.NetworkCallInInit,
		m.LoopInInit,
		m.ComplexMathInInit,
	}, kinds["heavy-init.js"])
	assert.Equal(t, []m.FindingKind{m.MissingCheck, m.MissingTag, m.MissingTag}, kinds["untagged.js"])
	assert.Equal(t, []m.FindingKind{m.DuplicateTag, m.DuplicateTag}, kinds["duplicate-tags.js"])
	assert.Equal(t, []m.FindingKind{m.MissingThresholds}, kinds["no-thresholds.js"])
	assert.Equal(t, []m.FindingKind{m.MissingCheck}, kinds["scenarios.ts"])

	assert.Contains(t, out.String(), "Function 'order' performs HTTP requests without any check()")
	assert.Contains(t, out.String(), `Tag "page" is used by multiple endpoints`)
	assert.Equal(t, 1, report.Summary.FilesWithErrors)
}
