package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/KuaaMU/codesage/pkg/review"
	"github.com/KuaaMU/codesage/pkg/version"
)

// SARIF 2.1.0 constants.
const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	toolName       = "CodeSage"
	toolInfoURI    = "https://github.com/KuaaMU/codesage"
)

// SARIFReport is the root of a SARIF 2.1.0 document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun groups a tool description with its results.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool wraps the driver description.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver identifies the producing tool and its rule catalog.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one rule referenced by results.
type SARIFRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     SARIFMessage       `json:"shortDescription"`
	FullDescription      SARIFMessage       `json:"fullDescription"`
	DefaultConfiguration SARIFConfiguration `json:"defaultConfiguration"`
	HelpURI              string             `json:"helpUri"`
}

// SARIFConfiguration carries a rule's default severity level.
type SARIFConfiguration struct {
	Level string `json:"level"`
}

// SARIFMessage is a plain-text message holder.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFResult is one reported finding.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFLocation wraps the physical location of a finding.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation points at an artifact region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation holds the artifact URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is a 1-based line/column span.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// BuildSARIF converts issues into a single-run SARIF document. Rules are
// deduplicated by issue ID in first-seen order; a rule's default level comes
// from the severity of the first issue that introduced it.
func BuildSARIF(issues []review.Issue) SARIFReport {
	rules := make([]SARIFRule, 0)
	seen := make(map[string]struct{})
	results := make([]SARIFResult, 0, len(issues))

	for _, issue := range issues {
		if _, ok := seen[issue.ID]; !ok {
			seen[issue.ID] = struct{}{}
			rules = append(rules, SARIFRule{
				ID:                   issue.ID,
				Name:                 issue.ID,
				ShortDescription:     SARIFMessage{Text: issue.Message},
				FullDescription:      SARIFMessage{Text: issue.Explanation},
				DefaultConfiguration: SARIFConfiguration{Level: severityToLevel(issue.Severity)},
				HelpURI:              fmt.Sprintf("%s/docs/rules/%s", toolInfoURI, issue.ID),
			})
		}

		results = append(results, SARIFResult{
			RuleID:  issue.ID,
			Level:   severityToLevel(issue.Severity),
			Message: SARIFMessage{Text: issue.Message},
			Locations: []SARIFLocation{{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{
						URI: strings.ReplaceAll(issue.Location.FilePath, `\`, "/"),
					},
					Region: SARIFRegion{
						StartLine:   issue.Location.StartLine,
						StartColumn: issue.Location.StartColumn,
						EndLine:     issue.Location.EndLine,
						EndColumn:   issue.Location.EndColumn,
					},
				},
			}},
		})
	}

	return SARIFReport{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:           toolName,
				Version:        version.Version,
				InformationURI: toolInfoURI,
				Rules:          rules,
			}},
			Results: results,
		}},
	}
}

// WriteSARIF emits issues as an indented SARIF 2.1.0 document.
func WriteSARIF(w io.Writer, issues []review.Issue) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(BuildSARIF(issues)); err != nil {
		return fmt.Errorf("encode sarif report: %w", err)
	}

	return nil
}

// severityToLevel maps priorities onto the three SARIF levels.
func severityToLevel(s review.Severity) string {
	switch s {
	case review.SeverityP0:
		return "error"
	case review.SeverityP1:
		return "warning"
	default:
		return "note"
	}
}
