package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

func TestTUI_PrintsWhenOutputIsNotATerminal(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.Start(context.Background(), WithScanMode()))
	ui.DisplayScanInfo(context.Background(), 2, 1)
	require.NoError(t, ui.DisplayReport(context.Background(), sampleReport()))

	output := out.String()
	assert.Contains(t, output, "Analyzing 2 script(s) with 1 worker(s)")
	assert.Contains(t, output, "load.js")
	assert.Contains(t, output, "Avoid loops in k6 init context.")
	assert.Contains(t, output, "parse failure: syntax error at 1:26")
	assert.Contains(t, output, "3 file(s)")
}

func TestTUI_ReportModeSkipsScanInfo(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.Start(context.Background(), WithReportMode()))
	ui.DisplayScanInfo(context.Background(), 2, 1)

	assert.Empty(t, out.String())
}

func TestTUI_DisplayDiff(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := &bytes.Buffer{}

		require.NoError(t, NewTUI(out).DisplayDiff(context.Background(), ""))
		assert.Contains(t, out.String(), "No differences.")
	})

	t.Run("changes", func(t *testing.T) {
		out := &bytes.Buffer{}

		require.NoError(t, NewTUI(out).DisplayDiff(context.Background(), "-a.js:1:1: [MissingTag] x\n+b.js:1:1: [MissingTag] x\n"))
		assert.Contains(t, out.String(), "a.js:1:1")
		assert.Contains(t, out.String(), "b.js:1:1")
	})
}

func TestTUI_DisplayRulesAndInspection(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.DisplayRules(context.Background(), []m.RuleInfo{{Name: "check-coverage", Kinds: []m.FindingKind{m.MissingCheck}, Enabled: true}}))
	require.NoError(t, ui.DisplayInspection(context.Background(), "smoke.js", "targets: []\n"))

	assert.Contains(t, out.String(), "check-coverage")
	assert.Contains(t, out.String(), "smoke.js")
	assert.Contains(t, out.String(), "targets: []")
}

func TestRenderDiff_KeepsLines(t *testing.T) {
	diff := "--- old\n+++ new\n@@ -1 +1 @@\n-x\n+y\n context"

	assert.Equal(t, strings.Count(diff, "\n"), strings.Count(renderDiff(diff), "\n"))
}

func longContent(lines int) string {
	var b strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}

	return b.String()
}

func TestPagerModel_LoadingUntilSized(t *testing.T) {
	pm := newPagerModel("report", longContent(5))

	assert.Nil(t, pm.Init())
	assert.Equal(t, "Loading...\n", pm.View())

	model, _ := pm.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := model.View()

	assert.Contains(t, view, "report")
	assert.Contains(t, view, "line 1")
	assert.Contains(t, view, "q quit")
}

func TestPagerModel_Scrolling(t *testing.T) {
	var model tea.Model = newPagerModel("report", longContent(100))

	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 14})

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	pm := model.(pagerModel)
	assert.True(t, pm.viewport.AtBottom())
	assert.Contains(t, pm.View(), "line 100")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	pm = model.(pagerModel)
	assert.True(t, pm.viewport.AtTop())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	pm = model.(pagerModel)
	assert.Equal(t, 1, pm.viewport.YOffset)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	pm = model.(pagerModel)
	assert.Equal(t, 0, pm.viewport.YOffset)
}

func TestPagerModel_Resize(t *testing.T) {
	var model tea.Model = newPagerModel("report", longContent(50))

	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	pm := model.(pagerModel)
	assert.Equal(t, 100, pm.viewport.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, pm.viewport.Height)
}

func TestPagerModel_Quit(t *testing.T) {
	var model tea.Model = newPagerModel("report", longContent(5))

	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, model.View())
}
