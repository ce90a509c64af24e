// Package server builds the MCP server and registers the codescope tools.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/tools"
)

// Handlers bundles the tool handlers wired in main.
type Handlers struct {
	Read       *tools.ReadHandler
	Files      *tools.FilesHandler
	Search     *tools.SearchHandler
	Analyze    *tools.AnalyzeHandler
	Definition *tools.DefinitionHandler
	Info       *tools.InfoHandler
	Status     *tools.StatusHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "codescope",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server provides code intelligence over one sandboxed project root: safe file reading, glob listings, regex search, and structural analysis (imports, classes, functions) across common languages. Results are cached and stay coherent as files change.

Tool guidance:
- Use search_code for regex content search; results are grouped per file with context lines
- Use analyze_structure to get a file's symbol outline before reading it whole
- Use find_definition to jump to where a named class or function is declared
- Use read_file for numbered file contents; list_files for glob-filtered directory listings
- All paths are relative to the configured project root; anything outside it is rejected`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "read_file",
		Description: `Read a text file inside the project root. Returns numbered lines with a header naming the language and line count.

Encoding is detected automatically (UTF-8/UTF-16 BOMs); pass encoding to force one. Binary files and files over the configured size ceiling are rejected.`,
	}, h.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "list_files",
		Description: `List files and directories under a root-relative directory.

Options:
  - pattern: glob filter relative to the directory (e.g. "**/*.go", "src/**/*.ts")
  - recursive: descend into subdirectories (bounded depth)
Ignored trees (.git, node_modules, build output, .gitignore rules) are skipped.`,
	}, h.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "search_code",
		Description: `Search file contents with a regular expression. Matches are grouped per file in lexical path order with line numbers and optional context lines.

Options:
  - file_pattern: glob to restrict candidate files (e.g. "**/*.py")
  - case_sensitive: exact-case matching (default false)
  - max_results / context_lines: result shaping
Binary and unreadable files are skipped and tallied, never fatal.`,
	}, h.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "analyze_structure",
		Description: `Extract the structure of one source file: imports, classes, functions, line ranges, and nesting. Supports python, javascript, typescript, java, c, cpp, go, rust, and ruby; anything else degrades to a generic heuristic with a note.

Pass include_docstrings to capture doc comments alongside declarations.`,
	}, h.Analyze.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "find_definition",
		Description: `Locate where a symbol (class, function, or variable) is declared. Exact name match; optionally scoped to a directory and/or language. Candidate files are analyzed on demand, so the first call over a large tree is the slow one.`,
	}, h.Definition.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "file_info",
		Description: "Show metadata for one file: size, modification time, language, and line count. Binary files report metadata only.",
	}, h.Info.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "codescope_status",
		Description: "Show engine status: root, uptime, cache entries and hit rate, indexed symbols, and memory usage.",
	}, h.Status.Handle)

	return mcpServer
}
