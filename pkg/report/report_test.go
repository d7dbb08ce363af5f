package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuaaMU/codesage/pkg/review"
)

func sampleIssues() []review.Issue {
	return []review.Issue{
		{
			ID:       "COMPLEXITY001",
			Severity: review.SeverityP1,
			Category: review.CategoryMaintainability,
			Location: review.Location{
				FilePath:  "src/main.go",
				StartLine: 1, StartColumn: 1,
				EndLine: 40, EndColumn: 1,
			},
			Message:     "File has very high cyclomatic complexity",
			Explanation: "Deeply branched code is hard to test.",
			Confidence:  0.9,
		},
		{
			ID:       "DUPLICATION001",
			Severity: review.SeverityP3,
			Category: review.CategoryMaintainability,
			Location: review.Location{
				FilePath:  "src/util.go",
				StartLine: 1, StartColumn: 1,
				EndLine: 12, EndColumn: 1,
			},
			Message:     "File contains duplicated code",
			Explanation: "Repeated lines increase maintenance cost.",
			Confidence:  0.7,
		},
	}
}

func TestNormalizeFormat(t *testing.T) {
	t.Parallel()

	for _, known := range []string{FormatText, FormatJSON, FormatSARIF} {
		got, fallback := NormalizeFormat(known)

		assert.Equal(t, known, got)
		assert.False(t, fallback)
	}

	got, fallback := NormalizeFormat("xml")
	assert.Equal(t, FormatText, got)
	assert.True(t, fallback)
}

func TestWriteText_NoIssues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, nil))
	assert.Contains(t, buf.String(), "No issues found!")
}

func TestWriteText_ListsEveryIssue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteText(&buf, sampleIssues()))

	out := buf.String()
	assert.Contains(t, out, "Found 2 issue(s)")
	assert.Contains(t, out, "File has very high cyclomatic complexity")
	assert.Contains(t, out, "src/main.go:1")
	assert.Contains(t, out, "File contains duplicated code")
	assert.Contains(t, out, "Maintainability")
}

func TestWriteJSON_ValidatesAgainstSchema(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleIssues()))
	assert.NoError(t, ValidateJSON(buf.Bytes()))
}

func TestWriteJSON_NilIssuesIsEmptyArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
	assert.NoError(t, ValidateJSON(buf.Bytes()))
}

func TestValidateJSON_RejectsBadSeverity(t *testing.T) {
	t.Parallel()

	bad := `[{"id":"X","severity":"P9","category":"Bug",` +
		`"location":{"file_path":"a.go","start_line":1,"start_column":1,"end_line":1,"end_column":1},` +
		`"message":"m","explanation":"e","confidence":0.5}]`

	assert.ErrorIs(t, ValidateJSON([]byte(bad)), ErrSchemaViolation)
}

func TestWriteIssues_DispatchesOnFormat(t *testing.T) {
	t.Parallel()

	var text, js, sarif bytes.Buffer

	require.NoError(t, WriteIssues(&text, sampleIssues(), FormatText))
	require.NoError(t, WriteIssues(&js, sampleIssues(), FormatJSON))
	require.NoError(t, WriteIssues(&sarif, sampleIssues(), FormatSARIF))

	assert.Contains(t, text.String(), "Found 2 issue(s)")
	assert.Contains(t, js.String(), `"COMPLEXITY001"`)
	assert.Contains(t, sarif.String(), `"2.1.0"`)
}

func TestNewSummary_SumsDebt(t *testing.T) {
	t.Parallel()

	metrics := map[string]review.CodeMetrics{
		"a.go": {TechnicalDebtMinutes: 10},
		"b.go": {TechnicalDebtMinutes: 25},
	}

	s := NewSummary(2, 1, [4]int{0, 1, 2, 0}, metrics)

	assert.Equal(t, 35, s.TotalDebtMinutes)
	assert.Equal(t, 3, s.TotalIssues())
}

func TestWriteSummary_RendersTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := Summary{
		FilesAnalyzed:    5,
		FilesSkipped:     1,
		SeverityCounts:   [4]int{1, 2, 3, 4},
		TotalDebtMinutes: 90,
	}

	require.NoError(t, WriteSummary(&buf, s))

	out := buf.String()
	assert.Contains(t, out, "Files analyzed: 5")
	assert.Contains(t, out, "Files skipped: 1")
	assert.Contains(t, out, "90 minute(s)")
	assert.Contains(t, out, "P0 (Critical)")
	assert.Contains(t, out, "Total")
}

func TestWriteDebtHTML_RendersCharts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	metrics := map[string]review.CodeMetrics{
		"a.go": {TechnicalDebtMinutes: 150},
		"b.go": {TechnicalDebtMinutes: 15},
	}

	require.NoError(t, WriteDebtHTML(&buf, metrics, [4]int{0, 1, 3, 2}))

	out := buf.String()
	assert.Contains(t, out, "Technical Debt by File")
	assert.Contains(t, out, "Issues by Severity")
	assert.Contains(t, out, "a.go")
}
