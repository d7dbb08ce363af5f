package metrics

import (
	"fmt"

	"github.com/KuaaMU/codesage/pkg/mathutil"
	"github.com/KuaaMU/codesage/pkg/review"
)

// Issue rule identifiers. Stable: SARIF consumers key rules on these.
const (
	RuleHighCyclomatic     = "COMPLEXITY001"
	RuleHighCognitive      = "COMPLEXITY002"
	RuleLowMaintainability = "MAINTAINABILITY001"
	RuleDuplication        = "DUPLICATION001"
)

// Issue thresholds. A cyclomatic complexity above the severe bound escalates
// the finding from P2 to P1.
const (
	cyclomaticIssueThreshold  = 10
	cyclomaticSevereThreshold = 20
	cognitiveIssueThreshold   = 15
	maintainabilityThreshold  = 65.0
	duplicationIssueThreshold = 10.0
)

// Rule confidences.
const (
	confidenceCyclomatic      = 0.9
	confidenceCognitive       = 0.85
	confidenceMaintainability = 0.8
	confidenceDuplication     = 0.7
)

// Analyzer derives maintainability issues from metric threshold violations.
// Every issue spans the whole file; per-function granularity would require
// the syntax-tree layer that is out of scope here.
type Analyzer struct{}

// NewAnalyzer creates the metrics analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Name returns the analyzer identifier.
func (a *Analyzer) Name() string {
	return "metrics"
}

// Analyze computes metrics for the context source and converts threshold
// violations into issues. It never fails for valid contexts.
func (a *Analyzer) Analyze(ctx *review.Context) ([]review.Issue, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: metrics analyzer requires a context", review.ErrAnalysis)
	}

	m := Compute(ctx.Source)
	span := wholeFile(ctx.FilePath, m.LinesOfCode)

	var issues []review.Issue

	if m.CyclomaticComplexity > cyclomaticIssueThreshold {
		severity := review.SeverityP2
		if m.CyclomaticComplexity > cyclomaticSevereThreshold {
			severity = review.SeverityP1
		}

		issues = append(issues, review.Issue{
			ID:       RuleHighCyclomatic,
			Severity: severity,
			Category: review.CategoryMaintainability,
			Location: span,
			Message:  fmt.Sprintf("High cyclomatic complexity: %d", m.CyclomaticComplexity),
			Explanation: "This code has high cyclomatic complexity, making it harder to understand and test. " +
				"Consider breaking it into smaller functions.",
			Confidence: confidenceCyclomatic,
		})
	}

	if m.CognitiveComplexity > cognitiveIssueThreshold {
		issues = append(issues, review.Issue{
			ID:       RuleHighCognitive,
			Severity: review.SeverityP2,
			Category: review.CategoryMaintainability,
			Location: span,
			Message:  fmt.Sprintf("High cognitive complexity: %d", m.CognitiveComplexity),
			Explanation: "This code has high cognitive complexity with deep nesting. " +
				"Consider refactoring to reduce nesting levels.",
			Confidence: confidenceCognitive,
		})
	}

	if m.MaintainabilityIndex < maintainabilityThreshold {
		issues = append(issues, review.Issue{
			ID:       RuleLowMaintainability,
			Severity: review.SeverityP2,
			Category: review.CategoryMaintainability,
			Location: span,
			Message:  fmt.Sprintf("Low maintainability index: %.1f", m.MaintainabilityIndex),
			Explanation: "This code has a low maintainability index. " +
				"Consider refactoring to improve code quality.",
			Confidence: confidenceMaintainability,
		})
	}

	if m.DuplicationPercentage > duplicationIssueThreshold {
		issues = append(issues, review.Issue{
			ID:       RuleDuplication,
			Severity: review.SeverityP3,
			Category: review.CategoryMaintainability,
			Location: span,
			Message:  fmt.Sprintf("Code duplication detected: %.1f%%", m.DuplicationPercentage),
			Explanation: "Duplicate code has been detected. " +
				"Consider extracting common code into reusable functions.",
			Confidence: confidenceDuplication,
		})
	}

	return issues, nil
}

// wholeFile spans the entire file from line 1. Lines and columns stay >= 1
// even for empty files so downstream SARIF regions remain valid.
func wholeFile(path string, loc int) review.Location {
	return review.Location{
		FilePath:    path,
		StartLine:   1,
		StartColumn: 1,
		EndLine:     mathutil.Max(1, loc),
		EndColumn:   1,
	}
}
