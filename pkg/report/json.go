package report

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/KuaaMU/codesage/pkg/review"
)

//go:embed schema/issues-schema.json
var issuesSchema string

// ErrSchemaViolation indicates an emitted JSON report does not satisfy the
// shipped report schema.
var ErrSchemaViolation = errors.New("json report violates schema")

// WriteJSON emits the exact issue array as indented JSON.
func WriteJSON(w io.Writer, issues []review.Issue) error {
	if issues == nil {
		issues = []review.Issue{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(issues); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

// ValidateJSON checks a JSON issue report against the shipped schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(issuesSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate json report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	for _, desc := range result.Errors() {
		sb.WriteString("; ")
		sb.WriteString(desc.String())
	}

	return fmt.Errorf("%w%s", ErrSchemaViolation, sb.String())
}
