package adapter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

// Report file names inside a reports directory.
const (
	ReportJSONFile = "report.json"
	ReportYAMLFile = "report.yaml"
	ReportCSVFile  = "report.csv"
)

// ErrNoReport is returned when a reports directory holds no saved report.
var ErrNoReport = errors.New("no report found")

// ErrUnknownFormat is returned for a report format the store cannot write.
var ErrUnknownFormat = errors.New("unknown report format")

var csvHeader = []string{"file", "kind", "line", "column", "message", "function", "endpoint", "tag", "error"}

// ReportStore persists scan reports.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report, formats ...m.ReportFormat) error
	LoadReport(dir m.Path) (m.Report, error)
}

type reportStore struct{}

// NewReportStore returns a filesystem-backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// SaveReport writes report.json and any additional requested formats into dir.
func (s *reportStore) SaveReport(dir m.Path, report m.Report, formats ...m.ReportFormat) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	written := map[m.ReportFormat]bool{}

	for _, format := range append([]m.ReportFormat{m.FormatJSON}, formats...) {
		if written[format] {
			continue
		}

		written[format] = true

		var err error

		switch format {
		case m.FormatJSON:
			err = writeJSON(filepath.Join(string(dir), ReportJSONFile), report)
		case m.FormatYAML:
			err = writeYAML(filepath.Join(string(dir), ReportYAMLFile), report)
		case m.FormatCSV:
			err = writeCSV(filepath.Join(string(dir), ReportCSVFile), report)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}

		if err != nil {
			return fmt.Errorf("save %s report: %w", format, err)
		}
	}

	return nil
}

// LoadReport reads report.json from dir.
func (s *reportStore) LoadReport(dir m.Path) (m.Report, error) {
	path := filepath.Join(string(dir), ReportJSONFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Report{}, fmt.Errorf("%w in %s", ErrNoReport, dir)
		}

		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

func writeJSON(path string, report m.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func writeYAML(path string, report m.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func writeCSV(path string, report m.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, file := range report.Files {
		if file.Error != "" {
			if err := w.Write([]string{string(file.Path), "", "", "", "", "", "", "", file.Error}); err != nil {
				return err
			}

			continue
		}

		for _, finding := range file.Findings {
			row := []string{
				string(file.Path),
				string(finding.Kind),
				strconv.Itoa(finding.Location.Line),
				strconv.Itoa(finding.Location.Column),
				finding.Message,
				finding.Data.FunctionName,
				finding.Data.Endpoint,
				finding.Data.TagName,
				"",
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()

	return w.Error()
}
