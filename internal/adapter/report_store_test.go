package adapter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

func sampleReport() m.Report {
	return m.NewReport([]m.FileReport{
		{
			Path: "scripts/load.js",
			Hash: "abc",
			Findings: []m.Finding{
				{
					Kind:     m.MissingTag,
					Message:  `HTTP request to "https://test.k6.io" has no unique tag`,
					Location: m.Location{Line: 4, Column: 3},
					Data:     m.FindingData{Endpoint: "https://test.k6.io"},
				},
				{
					Kind:     m.MissingCheck,
					Message:  "Function 'browse' performs HTTP requests without any check()",
					Location: m.Location{Line: 9, Column: 17},
					Data:     m.FindingData{FunctionName: "browse"},
				},
			},
		},
		{Path: "scripts/broken.js", Error: "parse failure: syntax error at 1:5"},
	})
}

func TestReportStore_SaveLoadRoundTrip(t *testing.T) {
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))
	store := NewReportStore()
	report := sampleReport()

	require.NoError(t, store.SaveReport(dir, report))

	loaded, err := store.LoadReport(dir)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)

	_, err = os.Stat(filepath.Join(string(dir), ReportYAMLFile))
	assert.True(t, os.IsNotExist(err), "yaml is only written on request")
}

func TestReportStore_WritesRequestedFormats(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore()

	require.NoError(t, store.SaveReport(m.Path(dir), sampleReport(), m.FormatCSV, m.FormatYAML, m.FormatJSON))

	f, err := os.Open(filepath.Join(dir, ReportCSVFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"scripts/load.js", "MissingTag", "4", "3"}, rows[1][:4])
	assert.Equal(t, "browse", rows[2][5])
	assert.Equal(t, "scripts/broken.js", rows[3][0])
	assert.Equal(t, "parse failure: syntax error at 1:5", rows[3][8])

	data, err := os.ReadFile(filepath.Join(dir, ReportYAMLFile))
	require.NoError(t, err)

	var decoded m.Report
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Summary.Findings)
	assert.Equal(t, m.MissingCheck, decoded.Files[0].Findings[1].Kind)
}

func TestReportStore_UnknownFormat(t *testing.T) {
	err := NewReportStore().SaveReport(m.Path(t.TempDir()), sampleReport(), m.ReportFormat("xml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReportStore_LoadMissing(t *testing.T) {
	_, err := NewReportStore().LoadReport(m.Path(t.TempDir()))
	require.ErrorIs(t, err, ErrNoReport)
}
