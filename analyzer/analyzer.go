// Package analyzer extracts imports, type declarations, and functions from
// source text, producing one StructureReport per file. Every language uses a
// lightweight line-oriented strategy except Python, which walks a real
// syntax tree when the tree-sitter binding is available. Both paths emit the
// same Symbol shape, so callers never branch on language.
package analyzer

import (
	"codescope/language"
)

// SymbolKind classifies a declaration.
type SymbolKind string

const (
	KindImport   SymbolKind = "import"
	KindClass    SymbolKind = "class"
	KindFunction SymbolKind = "function"
	KindVariable SymbolKind = "variable"
)

// Symbol is one extracted declaration. Line numbers are 1-based and
// file-absolute; StartLine <= EndLine always holds.
type Symbol struct {
	Kind      SymbolKind `json:"kind"`
	Name      string     `json:"name"`
	StartLine int        `json:"startLine"`
	EndLine   int        `json:"endLine"`
	Doc       string     `json:"doc,omitempty"`
	Parent    string     `json:"parent,omitempty"` // enclosing class/function name
}

// StructureReport is the ordered symbol table for one file. It is immutable
// once built; cached reports are shared between callers and must not be
// mutated.
type StructureReport struct {
	Path      string       `json:"path"`
	Language  language.Tag `json:"language"`
	Symbols   []Symbol     `json:"symbols"`
	Imports   int          `json:"imports"`
	Classes   int          `json:"classes"`
	Functions int          `json:"functions"`
	Note      string       `json:"note,omitempty"` // diagnostic for degraded analysis
}

// strategy extracts symbols from one file's content.
type strategy interface {
	extract(content string, includeDocs bool) []Symbol
}

// Analyze produces the structure report for a single file. Unclassifiable
// or unparsable input degrades to the generic heuristic or an empty report
// with a note; it never fails.
func Analyze(relPath string, tag language.Tag, content string, includeDocs bool) *StructureReport {
	report := &StructureReport{Path: relPath, Language: tag}

	strat := strategyFor(tag)
	if tag == language.Unknown {
		report.Note = "unrecognized language; generic heuristics applied"
	}

	report.Symbols = strat.extract(content, includeDocs)
	for i := range report.Symbols {
		switch report.Symbols[i].Kind {
		case KindImport:
			report.Imports++
		case KindClass:
			report.Classes++
		case KindFunction:
			report.Functions++
		}
	}
	return report
}

// strategyFor selects the extraction strategy for a tag. Python goes
// through newPythonStrategy, which is the tree-sitter walker under cgo and
// the indentation heuristic otherwise.
func strategyFor(tag language.Tag) strategy {
	if tag == language.Python {
		return newPythonStrategy()
	}
	if s, ok := lineStrategies[tag]; ok {
		return s
	}
	return lineStrategies[language.Unknown]
}
