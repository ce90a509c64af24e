package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// DefinitionArgs defines the input parameters for the find_definition tool.
type DefinitionArgs struct {
	Symbol     string `json:"symbol" jsonschema:"Exact symbol name to locate (class, function, or variable)"`
	Directory  string `json:"directory,omitempty" jsonschema:"Root-relative directory to search under (default: the project root)"`
	Language   string `json:"language,omitempty" jsonschema:"Restrict to one language (python, go, javascript, ...)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum definition sites to return"`
}

// DefinitionHandler holds the dependencies for the definition tool.
type DefinitionHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a find_definition request.
func (h *DefinitionHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args DefinitionArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Symbol == "" {
		h.Logger.Warn("find_definition called with empty symbol")
		return missingArg("symbol"), nil, nil
	}

	entries, err := h.Engine.FindDefinition(args.Symbol, args.Directory, args.Language, args.MaxResults)
	if err != nil {
		h.Logger.Info("find_definition failed", "symbol", args.Symbol, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("find_definition",
		"symbol", args.Symbol,
		"directory", args.Directory,
		"hits", len(entries),
		"elapsed", time.Since(start))
	return textResult(FormatDefinitions(args.Symbol, entries)), nil, nil
}
