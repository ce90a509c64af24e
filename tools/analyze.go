package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// AnalyzeArgs defines the input parameters for the analyze_structure tool.
type AnalyzeArgs struct {
	Path        string `json:"path" jsonschema:"Root-relative path of the source file to analyze"`
	IncludeDocs bool   `json:"include_docstrings,omitempty" jsonschema:"Include docstrings/doc comments in the report (default false)"`
}

// AnalyzeHandler holds the dependencies for the structure tool.
type AnalyzeHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes an analyze_structure request.
func (h *AnalyzeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("analyze_structure called with empty path")
		return missingArg("path"), nil, nil
	}

	report, err := h.Engine.AnalyzeStructure(args.Path, args.IncludeDocs)
	if err != nil {
		h.Logger.Info("analyze_structure failed", "path", args.Path, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("analyze_structure",
		"path", args.Path,
		"language", report.Language,
		"symbols", len(report.Symbols),
		"elapsed", time.Since(start))
	return textResult(FormatStructureReport(report)), nil, nil
}
