// Package model defines the data structures shared by the analyzer, the
// workflow and the report sink.
package model

// FindingKind is the fixed enumeration of anti-patterns the analyzer reports.
type FindingKind string

// Init-region hygiene kinds.
const (
	FileOperationInInit FindingKind = "FileOperationInInit"
	JSONParseInInit     FindingKind = "JsonParseInInit"
	NetworkCallInInit   FindingKind = "NetworkCallInInit"
	DynamicImportInInit FindingKind = "DynamicImportInInit"
	ModuleLoadInInit    FindingKind = "ModuleLoadInInit"
	LoopInInit          FindingKind = "LoopInInit"
	ComplexMathInInit   FindingKind = "ComplexMathInInit"
)

// Coverage, tagging and threshold kinds.
const (
	MissingCheck      FindingKind = "MissingCheck"
	MissingTag        FindingKind = "MissingTag"
	DuplicateTag      FindingKind = "DuplicateTag"
	MissingThresholds FindingKind = "MissingThresholds"
)

// AllFindingKinds lists every kind in reporting order.
var AllFindingKinds = []FindingKind{
	FileOperationInInit,
	JSONParseInInit,
	NetworkCallInInit,
	DynamicImportInInit,
	ModuleLoadInInit,
	LoopInInit,
	ComplexMathInInit,
	MissingCheck,
	MissingTag,
	DuplicateTag,
	MissingThresholds,
}

// Location is a 1-based source position.
type Location struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// FindingData carries the parameters a finding's message is rendered from.
type FindingData struct {
	FunctionName string `json:"functionName,omitempty" yaml:"functionName,omitempty"`
	Endpoint     string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TagName      string `json:"tagName,omitempty" yaml:"tagName,omitempty"`
}

// Finding is a single reported anti-pattern.
type Finding struct {
	Kind     FindingKind `json:"kind" yaml:"kind"`
	Message  string      `json:"message" yaml:"message"`
	Location Location    `json:"location" yaml:"location"`
	Data     FindingData `json:"data" yaml:"data"`
}

// Severity is assigned by the report sink, never by detectors.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
