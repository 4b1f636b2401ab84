package model

// ReportVersion is the on-disk report format version.
const ReportVersion = 1

// ReportFormat names a persisted report encoding.
type ReportFormat string

// Report formats. JSON is always written because it is what view and diff read.
const (
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
	FormatCSV  ReportFormat = "csv"
)

// FileReport holds the analysis result of one script. Error is the per-file
// marker set when the file could not be read or parsed; Findings is empty then.
type FileReport struct {
	Path     Path      `json:"path" yaml:"path"`
	Hash     string    `json:"hash,omitempty" yaml:"hash,omitempty"`
	Findings []Finding `json:"findings" yaml:"findings"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates counts over a report.
type Summary struct {
	Files           int                 `json:"files" yaml:"files"`
	FilesWithErrors int                 `json:"filesWithErrors" yaml:"filesWithErrors"`
	Findings        int                 `json:"findings" yaml:"findings"`
	ByKind          map[FindingKind]int `json:"byKind" yaml:"byKind"`
}

// Report is the result of one scan.
type Report struct {
	Version int          `json:"version" yaml:"version"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// NewReport builds a report over files, which must already be in the order
// they should be presented in.
func NewReport(files []FileReport) Report {
	summary := Summary{
		Files:  len(files),
		ByKind: make(map[FindingKind]int),
	}

	for _, f := range files {
		if f.Error != "" {
			summary.FilesWithErrors++
		}

		for _, finding := range f.Findings {
			summary.Findings++
			summary.ByKind[finding.Kind]++
		}
	}

	return Report{
		Version: ReportVersion,
		Files:   files,
		Summary: summary,
	}
}

// RuleInfo describes one detector for listing purposes.
type RuleInfo struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Kinds       []FindingKind `json:"kinds" yaml:"kinds"`
	Enabled     bool          `json:"enabled" yaml:"enabled"`
}
