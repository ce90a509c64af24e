package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// SearchArgs defines the input parameters for the search_code tool.
type SearchArgs struct {
	Pattern       string `json:"pattern" jsonschema:"Regular expression to search for"`
	Directory     string `json:"directory,omitempty" jsonschema:"Root-relative directory to search under (default: the project root)"`
	FilePattern   string `json:"file_pattern,omitempty" jsonschema:"Optional glob filter over root-relative paths (e.g. **/*.py)"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"Match case exactly (default false)"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"Maximum total matches to return"`
	ContextLines  int    `json:"context_lines,omitempty" jsonschema:"Context lines before and after each match"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a search_code request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("search_code called with empty pattern")
		return missingArg("pattern"), nil, nil
	}

	result, err := h.Engine.SearchCode(engine.SearchOptions{
		Pattern:       args.Pattern,
		Directory:     args.Directory,
		FilePattern:   args.FilePattern,
		CaseSensitive: args.CaseSensitive,
		MaxResults:    args.MaxResults,
		ContextLines:  args.ContextLines,
	})
	if err != nil {
		h.Logger.Info("search_code failed", "pattern", args.Pattern, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("search_code",
		"pattern", args.Pattern,
		"directory", args.Directory,
		"matches", len(result.Matches),
		"scanned", result.FilesScanned,
		"skipped", result.FilesSkipped,
		"truncated", result.Truncated,
		"elapsed", time.Since(start))
	return textResult(FormatSearchResult(result)), nil, nil
}
