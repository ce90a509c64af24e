package tools

import (
	"fmt"
	"strings"

	"codescope/analyzer"
	"codescope/engine"
	"codescope/symbolindex"
)

// FormatFileContent renders a file with numbered lines, similar to the
// built-in Read tool. The header carries path, language, and line count.
func FormatFileContent(content *engine.FileContent) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%s, %d lines) ──\n", content.Path, content.Language, content.Lines))

	text := strings.TrimSuffix(content.Text, "\n")
	if text == "" {
		return builder.String()
	}
	lines := strings.Split(text, "\n")
	width := len(fmt.Sprintf("%d", len(lines)))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}
	return builder.String()
}

// FormatListing renders directory entries one per line, directories with a
// trailing slash.
func FormatListing(listing *engine.Listing) string {
	if len(listing.Entries) == 0 {
		return "No entries found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d entries:\n\n", len(listing.Entries)))
	for _, entry := range listing.Entries {
		if entry.IsDir {
			builder.WriteString(fmt.Sprintf("  %s/\n", entry.Path))
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s)\n", entry.Path, formatFileSize(entry.Size)))
		}
	}
	if listing.Truncated {
		builder.WriteString("\n(listing truncated)\n")
	}
	return builder.String()
}

// FormatSearchResult groups matches by file with line numbers and context.
func FormatSearchResult(result *engine.SearchResult) string {
	if len(result.Matches) == 0 {
		if result.FilesSkipped > 0 {
			return fmt.Sprintf("No matches found (%d files skipped as unreadable).", result.FilesSkipped)
		}
		return "No matches found."
	}

	var builder strings.Builder
	files := 0
	lastPath := ""
	for _, m := range result.Matches {
		if m.Path != lastPath {
			files++
			lastPath = m.Path
		}
	}
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", len(result.Matches), files))

	lastPath = ""
	for _, m := range result.Matches {
		if m.Path != lastPath {
			if lastPath != "" {
				builder.WriteString("\n")
			}
			builder.WriteString(fmt.Sprintf("── %s ──\n", m.Path))
			lastPath = m.Path
		}
		for _, line := range m.Before {
			builder.WriteString(fmt.Sprintf("  %s\n", line))
		}
		builder.WriteString(fmt.Sprintf("  %d: %s\n", m.Line, m.Text))
		for _, line := range m.After {
			builder.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	if result.Truncated {
		builder.WriteString("\n(results truncated)\n")
	}
	if result.FilesSkipped > 0 {
		builder.WriteString(fmt.Sprintf("\n%d files skipped as unreadable.\n", result.FilesSkipped))
	}
	return builder.String()
}

// FormatStructureReport renders the symbol table grouped by kind, nested
// symbols indented under their parent.
func FormatStructureReport(report *analyzer.StructureReport) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%s) ──\n", report.Path, report.Language))
	builder.WriteString(fmt.Sprintf("imports: %d, classes: %d, functions: %d\n",
		report.Imports, report.Classes, report.Functions))
	if report.Note != "" {
		builder.WriteString(fmt.Sprintf("note: %s\n", report.Note))
	}
	if len(report.Symbols) == 0 {
		return builder.String()
	}

	builder.WriteString("\n")
	for _, s := range report.Symbols {
		indent := ""
		if s.Parent != "" {
			indent = "  "
		}
		if s.StartLine == s.EndLine {
			builder.WriteString(fmt.Sprintf("%s%-9s %s  (line %d)\n", indent, s.Kind, s.Name, s.StartLine))
		} else {
			builder.WriteString(fmt.Sprintf("%s%-9s %s  (lines %d-%d)\n", indent, s.Kind, s.Name, s.StartLine, s.EndLine))
		}
		if s.Doc != "" {
			for _, line := range strings.Split(s.Doc, "\n") {
				builder.WriteString(fmt.Sprintf("%s    # %s\n", indent, line))
			}
		}
	}
	return builder.String()
}

// FormatDefinitions renders definition sites one per line.
func FormatDefinitions(symbol string, entries []symbolindex.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No definitions of %q found.", symbol)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d definitions of %q:\n\n", len(entries), symbol))
	for _, e := range entries {
		where := fmt.Sprintf("%s:%d", e.Path, e.Line)
		if e.Container != "" {
			builder.WriteString(fmt.Sprintf("  %s  %s in %s (%s)\n", where, e.Kind, e.Container, e.Language))
		} else {
			builder.WriteString(fmt.Sprintf("  %s  %s (%s)\n", where, e.Kind, e.Language))
		}
	}
	return builder.String()
}

// FormatInfo renders file metadata as a block.
func FormatInfo(info *engine.Info) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s ──\n", info.Path))
	if info.IsDir {
		builder.WriteString("type: directory\n")
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("name: %s\n", info.Name))
	builder.WriteString(fmt.Sprintf("size: %s\n", formatFileSize(info.Size)))
	builder.WriteString(fmt.Sprintf("modified: %s\n", info.ModTime.Format("2006-01-02 15:04:05")))
	if info.Binary {
		builder.WriteString("type: binary\n")
		return builder.String()
	}
	builder.WriteString(fmt.Sprintf("language: %s\n", info.Language))
	if info.Lines >= 0 {
		builder.WriteString(fmt.Sprintf("lines: %d\n", info.Lines))
	}
	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
