// Package mcp implements a Model Context Protocol server exposing CodeSage
// reviews as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KuaaMU/codesage/pkg/analyzers/analyze"
	"github.com/KuaaMU/codesage/pkg/analyzers/metrics"
	"github.com/KuaaMU/codesage/pkg/runner"
	"github.com/KuaaMU/codesage/pkg/version"
)

// serverName is the MCP server implementation name.
const serverName = "codesage"

// toolCount is the expected number of registered tools.
const toolCount = 2

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Registry is an optional analyzer registry. Nil uses the default
	// metrics analyzer.
	Registry *analyze.Registry
}

// Server wraps the MCP SDK server with CodeSage tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	registry *analyze.Registry
	runner   *runner.Runner
	mu       sync.RWMutex
	tools    []string
}

// NewServer creates a new MCP server with all CodeSage tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}

	logger := deps.Logger
	if logger != nil {
		opts.Logger = logger
	} else {
		logger = slog.Default()
	}

	registry := deps.Registry
	if registry == nil {
		registry = analyze.NewRegistry(metrics.NewAnalyzer())
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:    inner,
		registry: registry,
		runner:   runner.New(registry, runner.WithLogger(logger)),
		tools:    make([]string, 0, toolCount),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all CodeSage MCP tools to the server.
func (s *Server) registerTools() {
	s.registerReviewTool()
	s.registerReviewFileTool()
}

func (s *Server) registerReviewTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameReview,
		Description: reviewToolDescription,
	}, s.handleReview)

	s.trackTool(ToolNameReview)
}

func (s *Server) registerReviewFileTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameReviewFile,
		Description: reviewFileToolDescription,
	}, s.handleReviewFile)

	s.trackTool(ToolNameReviewFile)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	reviewToolDescription = "Review inline source code for quality issues. " +
		"Computes complexity, maintainability, duplication and technical debt " +
		"metrics and returns rule findings. Accepts code and a language file " +
		"extension (e.g. go, py, rs)."

	reviewFileToolDescription = "Review a source file on disk for quality issues. " +
		"Accepts an absolute file path and returns rule findings plus metrics."
)
