package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// FilesArgs defines the input parameters for the list_files tool.
type FilesArgs struct {
	Directory string `json:"directory,omitempty" jsonschema:"Root-relative directory to list (default: the project root)"`
	Pattern   string `json:"pattern,omitempty" jsonschema:"Optional glob filter over paths relative to the directory (e.g. **/*.go)"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"Descend into subdirectories (default false)"`
}

// FilesHandler holds the dependencies for the listing tool.
type FilesHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a list_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	listing, err := h.Engine.ListFiles(args.Directory, args.Pattern, args.Recursive)
	if err != nil {
		h.Logger.Info("list_files failed", "directory", args.Directory, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("list_files",
		"directory", args.Directory,
		"pattern", args.Pattern,
		"entries", len(listing.Entries),
		"truncated", listing.Truncated,
		"elapsed", time.Since(start))
	return textResult(FormatListing(listing)), nil, nil
}
