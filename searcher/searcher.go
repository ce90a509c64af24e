// Package searcher is the compiled-regex scan engine behind search_code.
// Pattern compilation happens once, before any file is opened, and every
// scan runs lock-free over content the caller already loaded.
package searcher

import (
	"regexp"
	"strings"

	"codescope/fault"
)

// Match is one pattern hit. Line and Column are 1-based; Before and After
// carry up to the configured number of surrounding context lines.
type Match struct {
	Path   string   `json:"path"`
	Line   int      `json:"line"`
	Column int      `json:"column"`
	Text   string   `json:"text"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// Searcher holds one compiled pattern plus per-file scan limits. It is
// immutable after Compile and safe for concurrent ScanFile calls.
type Searcher struct {
	re           *regexp.Regexp
	maxPerFile   int
	contextLines int
}

// Compile builds a Searcher, failing with an InvalidPattern fault before any
// file I/O when the expression does not parse. Case-insensitive matching is
// implemented by prefixing the (?i) flag rather than lowering content.
func Compile(pattern string, caseSensitive bool, maxPerFile, contextLines int) (*Searcher, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidPattern, pattern, err)
	}
	if maxPerFile <= 0 {
		maxPerFile = 100
	}
	if contextLines < 0 {
		contextLines = 0
	}
	return &Searcher{re: re, maxPerFile: maxPerFile, contextLines: contextLines}, nil
}

// ScanFile scans decoded content line by line and returns at most the
// per-file cap of matches, first match per line only. The second return
// reports whether the cap cut off further hits in this file.
func (s *Searcher) ScanFile(relPath, content string) ([]Match, bool) {
	lines := splitLines(content)
	var matches []Match
	for i, line := range lines {
		loc := s.re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if len(matches) >= s.maxPerFile {
			return matches, true
		}
		matches = append(matches, Match{
			Path:   relPath,
			Line:   i + 1,
			Column: loc[0] + 1,
			Text:   line,
			Before: context(lines, i-s.contextLines, i),
			After:  context(lines, i+1, i+1+s.contextLines),
		})
	}
	return matches, false
}

// Pattern returns the compiled expression's source, used in cache keys.
func (s *Searcher) Pattern() string {
	return s.re.String()
}

func context(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	out := make([]string, to-from)
	copy(out, lines[from:to])
	return out
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
