package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Ordering(t *testing.T) {
	t.Parallel()

	assert.Less(t, SeverityP0, SeverityP1)
	assert.Less(t, SeverityP1, SeverityP2)
	assert.Less(t, SeverityP2, SeverityP3)
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "P0", SeverityP0.String())
	assert.Equal(t, "P3", SeverityP3.String())
	// Out-of-range values render as the lowest priority.
	assert.Equal(t, "P3", Severity(42).String())
	assert.Equal(t, "P3", Severity(-1).String())
}

func TestIssue_JSONShape(t *testing.T) {
	t.Parallel()

	issue := Issue{
		ID:       "COMPLEXITY001",
		Severity: SeverityP1,
		Category: CategoryMaintainability,
		Location: Location{
			FilePath:  "main.go",
			StartLine: 1, StartColumn: 1,
			EndLine: 5, EndColumn: 1,
		},
		Message:     "too complex",
		Explanation: "because",
		Confidence:  0.9,
	}

	data, err := json.Marshal(issue)
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "P1", decoded["severity"])
	assert.Equal(t, "Maintainability", decoded["category"])
	assert.Equal(t, "main.go", decoded["location"].(map[string]any)["file_path"])
	// No fix attached, so the key is absent.
	assert.NotContains(t, decoded, "fix_suggestion")
}

func TestIssue_FixSerializes(t *testing.T) {
	t.Parallel()

	issue := Issue{
		ID:  "X",
		Fix: &Fix{Description: "extract helper", Diff: "- a\n+ b", SafeToAutoApply: false},
	}

	data, err := json.Marshal(issue)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"fix_suggestion"`)
	assert.Contains(t, string(data), `"safe_to_auto_apply":false`)
}

func TestCodeMetrics_OmitsAbsentCoverage(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CodeMetrics{LinesOfCode: 3, CyclomaticComplexity: 1, MaintainabilityIndex: 100})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "test_coverage")

	coverage := 82.5
	data, err = json.Marshal(CodeMetrics{TestCoverage: &coverage})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"test_coverage":82.5`)
}

func TestNewResult_StampsTimestamp(t *testing.T) {
	t.Parallel()

	result := NewResult("main.go", nil, CodeMetrics{})

	assert.Equal(t, "main.go", result.FilePath)
	assert.NotEmpty(t, result.Timestamp)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, result.Timestamp)
}
