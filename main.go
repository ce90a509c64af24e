package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/cache"
	"codescope/engine"
	"codescope/ignore"
	"codescope/pathguard"
	"codescope/register"
	"codescope/server"
	"codescope/symbolindex"
	"codescope/tools"
	"codescope/watcher"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		os.Exit(register.Run(os.Args[2:]))
	}

	var rootDir string
	var excludes excludePatterns
	var maxFileSize int64
	var maxResults, maxPerFile, maxEntries, maxDepth, contextLines int
	var cacheEntries, cacheBytes int
	var logLevel, logFile string

	flag.StringVar(&rootDir, "root", "", "Project root directory (default: $CODESCOPE_ROOT or the working directory)")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.Int64Var(&maxFileSize, "max-file-size", 1024*1024, "Maximum readable file size in bytes")
	flag.IntVar(&maxResults, "max-results", 100, "Maximum total search matches")
	flag.IntVar(&maxPerFile, "max-per-file", 20, "Maximum search matches per file")
	flag.IntVar(&maxEntries, "max-entries", 500, "Maximum directory listing entries")
	flag.IntVar(&maxDepth, "max-depth", 32, "Maximum recursive walk depth")
	flag.IntVar(&contextLines, "context-lines", 0, "Default context lines around search matches")
	flag.IntVar(&cacheEntries, "cache-entries", 1024, "Result cache entry budget")
	flag.IntVar(&cacheBytes, "cache-bytes", 64*1024*1024, "Result cache byte budget")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: codescope.log in the root)")
	flag.Parse()

	if rootDir == "" {
		rootDir = os.Getenv("CODESCOPE_ROOT")
	}
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	// stdout carries the MCP stdio stream; logs go to a file or stderr.
	if logFile == "" {
		logFile = filepath.Join(rootDir, "codescope.log")
	}
	logger := setupLogger(logLevel, logFile)

	guard, err := pathguard.New(rootDir)
	if err != nil {
		logger.Error("invalid root directory", "root", rootDir, "error", err)
		fmt.Fprintf(os.Stderr, "Error: invalid root directory %s: %v\n", rootDir, err)
		os.Exit(1)
	}

	symbols, err := symbolindex.New()
	if err != nil {
		logger.Error("failed to create symbol index", "error", err)
		os.Exit(1)
	}
	defer symbols.Close()

	matcher := ignore.New(guard.Root(), excludes)
	eng := engine.New(guard, matcher, symbols, cache.New(cacheEntries, cacheBytes), engine.Config{
		MaxFileSize:  maxFileSize,
		MaxResults:   maxResults,
		MaxPerFile:   maxPerFile,
		MaxEntries:   maxEntries,
		MaxDepth:     maxDepth,
		ContextLines: contextLines,
	}, logger)

	logger.Info("starting codescope",
		"root", guard.Root(),
		"maxFileSize", maxFileSize,
		"maxResults", maxResults,
		"cacheEntries", cacheEntries,
	)

	fileWatcher, err := watcher.New(guard.Root(), matcher, logger)
	if err != nil {
		logger.Warn("failed to start file watcher, relying on fingerprint checks only", "error", err)
	} else {
		go fileWatcher.Run()
		go handleWatcherEvents(fileWatcher, eng, matcher, logger)
		defer fileWatcher.Close()
	}

	mcpServer := server.Setup(server.Handlers{
		Read:       &tools.ReadHandler{Engine: eng, Logger: logger},
		Files:      &tools.FilesHandler{Engine: eng, Logger: logger},
		Search:     &tools.SearchHandler{Engine: eng, Logger: logger},
		Analyze:    &tools.AnalyzeHandler{Engine: eng, Logger: logger},
		Definition: &tools.DefinitionHandler{Engine: eng, Logger: logger},
		Info:       &tools.InfoHandler{Engine: eng, Logger: logger},
		Status:     &tools.StatusHandler{Engine: eng, Logger: logger},
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// handleWatcherEvents evicts cached results and indexed symbols for changed
// paths. A .gitignore change additionally reloads the ignore rules.
func handleWatcherEvents(w *watcher.Watcher, eng *engine.Engine, matcher *ignore.Matcher, logger *slog.Logger) {
	for batch := range w.Events() {
		for _, event := range batch {
			eng.InvalidatePath(event.Path)
			if event.Path == ".gitignore" {
				matcher.Reload()
				logger.Info("reloaded ignore rules")
			}
		}
		logger.Debug("invalidated changed paths", "count", len(batch))
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
