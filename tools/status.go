package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/engine"
)

// StatusArgs defines the input parameters for the codescope_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a codescope_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	stats := h.Engine.Stats()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("codescope_status",
		"cacheEntries", stats.Cache.Entries,
		"cacheBytes", stats.Cache.Bytes,
		"symbols", stats.Symbols,
		"memory", memStats.Alloc,
		"uptime", stats.Uptime,
	)

	hitRate := 0.0
	if total := stats.Cache.Hits + stats.Cache.Misses; total > 0 {
		hitRate = float64(stats.Cache.Hits) / float64(total) * 100
	}

	var builder strings.Builder
	builder.WriteString("=== codescope Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", stats.Root))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(stats.Uptime)))
	builder.WriteString(fmt.Sprintf("Cache entries: %d (%s)\n", stats.Cache.Entries, formatFileSize(int64(stats.Cache.Bytes))))
	builder.WriteString(fmt.Sprintf("Cache hit rate: %.1f%% (%d hits, %d misses)\n", hitRate, stats.Cache.Hits, stats.Cache.Misses))
	builder.WriteString(fmt.Sprintf("Indexed symbols: %d across %d files\n", stats.Symbols, stats.SymbolFiles))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
