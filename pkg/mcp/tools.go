package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KuaaMU/codesage/pkg/analyzers/metrics"
	"github.com/KuaaMU/codesage/pkg/lang"
	"github.com/KuaaMU/codesage/pkg/review"
)

// Tool name constants.
const (
	ToolNameReview     = "codesage_review"
	ToolNameReviewFile = "codesage_review_file"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrEmptyLanguage indicates the language parameter is empty.
	ErrEmptyLanguage = errors.New("language parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates the path is not absolute.
	ErrPathNotAbsolute = errors.New("path must be an absolute path")
)

// ReviewInput is the input schema for the codesage_review tool.
type ReviewInput struct {
	Code     string `json:"code"     jsonschema:"source code to review"`
	Language string `json:"language" jsonschema:"language file extension (e.g. go py rs ts)"`
}

// ReviewFileInput is the input schema for the codesage_review_file tool.
type ReviewFileInput struct {
	Path string `json:"path" jsonschema:"absolute path to a source file"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateCodeInput(code, language string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if language == "" {
		return ErrEmptyLanguage
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}

func (s *Server) handleReview(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ReviewInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateCodeInput(input.Code, input.Language); err != nil {
		return errorResult(err)
	}

	path := "code." + input.Language

	language, err := lang.FromExtension(path)
	if err != nil {
		return errorResult(err)
	}

	rc := &review.Context{
		FilePath: path,
		Source:   input.Code,
		Language: language,
	}

	issues, err := s.registry.AnalyzeAll(rc)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(review.NewResult(path, issues, metrics.Compute(input.Code)))
}

func (s *Server) handleReviewFile(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ReviewFileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	if !filepath.IsAbs(input.Path) {
		return errorResult(fmt.Errorf("%w: %s", ErrPathNotAbsolute, input.Path))
	}

	result, err := s.runner.ReviewFile(input.Path)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(result)
}
