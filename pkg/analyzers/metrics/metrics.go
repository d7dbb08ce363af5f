// Package metrics derives quantitative quality figures from raw source text:
// cyclomatic and cognitive complexity, maintainability index, duplication,
// and estimated technical debt.
//
// All computations are line/token heuristics, not control-flow analysis.
// Branch keywords inside string literals are over-counted; this is a
// documented limitation of the numeric contract, and consumers rely on the
// exact thresholds, so it must not be "fixed" without versioning the change.
package metrics

import (
	"math"
	"strings"

	"github.com/KuaaMU/codesage/pkg/mathutil"
	"github.com/KuaaMU/codesage/pkg/review"
	"github.com/KuaaMU/codesage/pkg/textutil"
)

// Maintainability index formula coefficients (classic MI, unnormalized).
const (
	miBase             = 171.0
	miVolumeWeight     = 5.2
	miCyclomaticWeight = 0.23
	miLocWeight        = 16.2
	miMax              = 100.0
)

// Technical debt penalty thresholds and rates.
const (
	debtCyclomaticThreshold  = 10
	debtCyclomaticPerPoint   = 5
	debtCognitiveThreshold   = 15
	debtCognitivePerPoint    = 3
	debtDuplicationThreshold = 5.0
	debtDuplicationFactor    = 2.0
	debtMaintainabilityFloor = 65.0
	debtMaintainabilityRate  = 2.0
)

// Compute derives the full metrics record for source. It is pure and
// deterministic, never fails, and yields well-defined values for empty input.
func Compute(source string) review.CodeMetrics {
	loc := textutil.CountLines(source)
	cyclomatic := CyclomaticComplexity(source)
	cognitive := CognitiveComplexity(source)
	maintainability := MaintainabilityIndex(loc, cyclomatic)
	duplication := DuplicationPercentage(source)

	return review.CodeMetrics{
		LinesOfCode:           loc,
		CyclomaticComplexity:  cyclomatic,
		CognitiveComplexity:   cognitive,
		MaintainabilityIndex:  maintainability,
		DuplicationPercentage: duplication,
		TechnicalDebtMinutes:  TechnicalDebtMinutes(cyclomatic, cognitive, duplication, maintainability),
	}
}

// CyclomaticComplexity counts decision points: base 1, plus one per line
// containing a branch keyword group, plus one per short-circuit operator
// occurrence, plus one per line containing an error-propagation marker.
func CyclomaticComplexity(source string) int {
	complexity := 1

	for line := range strings.Lines(source) {
		trimmed := strings.TrimSpace(line)

		if strings.Contains(trimmed, "if ") || strings.Contains(trimmed, "else if") {
			complexity++
		}

		if strings.Contains(trimmed, "while ") || strings.Contains(trimmed, "for ") {
			complexity++
		}

		if strings.Contains(trimmed, "match ") {
			complexity++
		}

		complexity += strings.Count(trimmed, "&&")
		complexity += strings.Count(trimmed, "||")

		if strings.Contains(trimmed, "?") {
			complexity++
		}
	}

	return complexity
}

// CognitiveComplexity weights branch and loop keywords by brace nesting
// depth: every opening brace increments the nesting counter, every closing
// brace decrements it (saturating at zero), and each branch/loop line adds
// nesting+1 to the running total.
func CognitiveComplexity(source string) int {
	total := 0
	nesting := 0

	for line := range strings.Lines(source) {
		trimmed := strings.TrimSpace(line)

		nesting += strings.Count(trimmed, "{")
		nesting = mathutil.Max(0, nesting-strings.Count(trimmed, "}"))

		if strings.Contains(trimmed, "if ") || strings.Contains(trimmed, "else if") {
			total += nesting + 1
		}

		if strings.Contains(trimmed, "while ") || strings.Contains(trimmed, "for ") {
			total += nesting + 1
		}
	}

	return total
}

// MaintainabilityIndex computes the classic composite score
// clamp(171 - 5.2*ln(volume) - 0.23*cyclomatic - 16.2*ln(LOC), 0, 100)
// with volume = LOC * ln(cyclomatic). Empty input and cyclomatic 1 both
// drive the volume term to its guard and score a clean 100.
func MaintainabilityIndex(loc, cyclomatic int) float64 {
	if loc == 0 || cyclomatic == 0 {
		return miMax
	}

	volume := float64(loc) * math.Log(float64(cyclomatic))
	if volume <= 0 {
		return miMax
	}

	mi := miBase -
		miVolumeWeight*math.Log(volume) -
		miCyclomaticWeight*float64(cyclomatic) -
		miLocWeight*math.Log(float64(loc))

	return mathutil.Clamp(mi, 0, miMax)
}

// DuplicationPercentage measures, over non-blank non-comment lines, the
// fraction whose trimmed text already appeared earlier in the same file.
func DuplicationPercentage(source string) float64 {
	lines := textutil.CodeLines(source)
	if len(lines) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(lines))
	duplicates := 0

	for _, line := range lines {
		if _, ok := seen[line]; ok {
			duplicates++

			continue
		}

		seen[line] = struct{}{}
	}

	return float64(duplicates) / float64(len(lines)) * 100
}

// TechnicalDebtMinutes estimates remediation time from threshold violations.
// Each penalty is independently additive and contributes zero below its
// threshold.
func TechnicalDebtMinutes(cyclomatic, cognitive int, duplication, maintainability float64) int {
	debt := 0

	if cyclomatic > debtCyclomaticThreshold {
		debt += (cyclomatic - debtCyclomaticThreshold) * debtCyclomaticPerPoint
	}

	if cognitive > debtCognitiveThreshold {
		debt += (cognitive - debtCognitiveThreshold) * debtCognitivePerPoint
	}

	if duplication > debtDuplicationThreshold {
		debt += int(duplication * debtDuplicationFactor)
	}

	if maintainability < debtMaintainabilityFloor {
		debt += int((debtMaintainabilityFloor - maintainability) * debtMaintainabilityRate)
	}

	return debt
}
