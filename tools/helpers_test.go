package tools

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/cache"
	"codescope/engine"
	"codescope/ignore"
	"codescope/pathguard"
	"codescope/symbolindex"
)

func newTestEngine(t *testing.T, files map[string]string) *engine.Engine {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	guard, err := pathguard.New(root)
	if err != nil {
		t.Fatal(err)
	}
	symbols, err := symbolindex.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { symbols.Close() })

	return engine.New(guard, ignore.New(root, nil), symbols, cache.New(128, 1<<20), engine.Config{}, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	return result.Content[0].(*mcp.TextContent).Text
}
