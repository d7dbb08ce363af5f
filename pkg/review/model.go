// Package review defines the shared vocabulary of the codesage pipeline:
// issues, severities, locations, per-file metrics, and the analysis context
// handed to analyzers.
package review

import "time"

// Severity orders issues from critical to low. The zero value is P0.
type Severity int

// Severity levels, highest priority first.
const (
	SeverityP0 Severity = iota // critical
	SeverityP1                 // high
	SeverityP2                 // medium
	SeverityP3                 // low
)

var severityNames = [...]string{"P0", "P1", "P2", "P3"}

// String returns the short label (P0..P3). Unknown values render as P3.
func (s Severity) String() string {
	if s < SeverityP0 || s > SeverityP3 {
		return severityNames[SeverityP3]
	}

	return severityNames[s]
}

// MarshalText implements encoding.TextMarshaler so severities serialize as
// their short labels in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category classifies an issue. The set is open: analyzers may introduce new
// categories without touching this package.
type Category string

// Categories produced by the built-in analyzers.
const (
	CategoryBug             Category = "Bug"
	CategorySecurity        Category = "Security"
	CategoryPerformance     Category = "Performance"
	CategoryMaintainability Category = "Maintainability"
	CategoryStyle           Category = "Style"
	CategoryDocumentation   Category = "Documentation"
	CategoryTestCoverage    Category = "TestCoverage"
)

// Location identifies a span of source code. Lines and columns are 1-indexed
// and the start never exceeds the end.
type Location struct {
	FilePath    string `json:"file_path"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

// Fix is an optional remediation attached to an issue.
type Fix struct {
	Description     string `json:"description"`
	Diff            string `json:"diff"`
	SafeToAutoApply bool   `json:"safe_to_auto_apply"`
}

// Issue is a single finding. Issues are immutable once produced; the ID is
// stable per rule, not per occurrence.
type Issue struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Location    Location `json:"location"`
	Message     string   `json:"message"`
	Explanation string   `json:"explanation"`
	Fix         *Fix     `json:"fix_suggestion,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// CodeMetrics is the quantitative profile of one file.
//
// Invariants: LinesOfCode >= 0, CyclomaticComplexity >= 1,
// CognitiveComplexity >= 0, MaintainabilityIndex in [0,100],
// DuplicationPercentage in [0,100], TechnicalDebtMinutes >= 0.
type CodeMetrics struct {
	LinesOfCode           int      `json:"lines_of_code"`
	CyclomaticComplexity  int      `json:"cyclomatic_complexity"`
	CognitiveComplexity   int      `json:"cognitive_complexity"`
	MaintainabilityIndex  float64  `json:"maintainability_index"`
	TestCoverage          *float64 `json:"test_coverage,omitempty"`
	DuplicationPercentage float64  `json:"duplication_percentage"`
	TechnicalDebtMinutes  int      `json:"technical_debt_minutes"`
}

// Context carries everything an analyzer needs for one file: the path, the
// raw source text, and a language tag. A Context is created per file, owned
// by the worker processing that file, and never shared for mutation.
type Context struct {
	FilePath string
	Source   string
	Language string
}

// Result is the outcome of reviewing a single file.
type Result struct {
	FilePath  string      `json:"file_path"`
	Issues    []Issue     `json:"issues"`
	Metrics   CodeMetrics `json:"metrics"`
	Timestamp string      `json:"timestamp"`
}

// NewResult builds a Result stamped with the current time in RFC 3339.
func NewResult(path string, issues []Issue, metrics CodeMetrics) Result {
	return Result{
		FilePath:  path,
		Issues:    issues,
		Metrics:   metrics,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
