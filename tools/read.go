package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// ReadArgs defines the input parameters for the read_file tool.
type ReadArgs struct {
	Path     string `json:"path" jsonschema:"Root-relative path of the file to read (e.g. src/main.py)"`
	Encoding string `json:"encoding,omitempty" jsonschema:"Text encoding: auto (default), utf-8, utf-16, utf-16le, utf-16be"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a read_file request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("read_file called with empty path")
		return missingArg("path"), nil, nil
	}

	content, err := h.Engine.ReadFile(args.Path, args.Encoding)
	if err != nil {
		h.Logger.Info("read_file failed", "path", args.Path, "error", err)
		return errorResult(err), nil, nil
	}

	h.Logger.Info("read_file", "path", args.Path, "lines", content.Lines, "elapsed", time.Since(start))
	return textResult(FormatFileContent(content)), nil, nil
}
