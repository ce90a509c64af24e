package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// InfoArgs defines the input parameters for the file_info tool.
type InfoArgs struct {
	Path string `json:"path" jsonschema:"Root-relative path of the file or directory"`
}

// InfoHandler holds the dependencies for the info tool.
type InfoHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a file_info request.
func (h *InfoHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args InfoArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("file_info called with empty path")
		return missingArg("path"), nil, nil
	}

	info, err := h.Engine.FileInfo(args.Path)
	if err != nil {
		h.Logger.Info("file_info failed", "path", args.Path, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("file_info", "path", args.Path, "elapsed", time.Since(start))
	return textResult(FormatInfo(info)), nil, nil
}
