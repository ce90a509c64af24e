package analyzer

import (
	"regexp"
	"strings"

	"codescope/language"
)

// lineRule recognizes one declaration form. The first non-empty capture
// group is the symbol name. veto, when set, suppresses a match (used to
// keep control-flow statements out of the C function heuristic).
type lineRule struct {
	kind SymbolKind
	re   *regexp.Regexp
	veto *regexp.Regexp
	join bool // join all capture groups with "." (from-import forms)
}

// lineStrategy is the generic per-language extractor: scan lines, recognize
// declaration anchors, and track nesting by indentation or brace balance to
// assign parents and end lines.
type lineStrategy struct {
	rules   []lineRule
	comment string // line-comment prefix for doc capture; empty disables
	braces  bool   // nesting via brace balance instead of indentation
}

func (s *lineStrategy) extract(content string, includeDocs bool) []Symbol {
	lines := splitLines(content)
	if s.braces {
		return s.extractBraced(lines, includeDocs)
	}
	return s.extractIndented(lines, includeDocs)
}

// open tracks a declaration whose extent is not yet known.
type open struct {
	idx     int // index into the output slice
	depth   int
	entered bool // brace languages: body brace seen
}

// extractIndented handles languages where nesting follows indentation. A
// declaration's block ends at the last non-blank line before the next
// non-blank line indented at or below it.
func (s *lineStrategy) extractIndented(lines []string, includeDocs bool) []Symbol {
	var out []Symbol
	var stack []open
	lastNonBlank := 0

	for i, line := range lines {
		n := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		depth := indentWidth(line)

		for len(stack) > 0 && depth <= stack[len(stack)-1].depth {
			out[stack[len(stack)-1].idx].EndLine = lastNonBlank
			stack = stack[:len(stack)-1]
		}

		if kind, name, ok := s.matchDecl(line); ok {
			sym := Symbol{Kind: kind, Name: name, StartLine: n, EndLine: n}
			if len(stack) > 0 {
				sym.Parent = out[stack[len(stack)-1].idx].Name
			}
			if includeDocs {
				sym.Doc = s.docAbove(lines, i)
			}
			out = append(out, sym)
			if kind == KindClass || kind == KindFunction {
				stack = append(stack, open{idx: len(out) - 1, depth: depth})
			}
		}
		lastNonBlank = n
	}

	for len(stack) > 0 {
		out[stack[len(stack)-1].idx].EndLine = lastNonBlank
		stack = stack[:len(stack)-1]
	}
	return out
}

// extractBraced handles languages where nesting follows brace balance. A
// declaration's block ends on the line whose closing brace returns the
// balance to the declaration's depth.
func (s *lineStrategy) extractBraced(lines []string, includeDocs bool) []Symbol {
	var out []Symbol
	var stack []open
	balance := 0

	for i, line := range lines {
		n := i + 1

		if kind, name, ok := s.matchDecl(line); ok {
			// A sibling declaration closes any open block that never
			// grew a body (forward declarations, brace on a later line
			// that never came).
			for len(stack) > 0 && !stack[len(stack)-1].entered && balance <= stack[len(stack)-1].depth {
				out[stack[len(stack)-1].idx].EndLine = n - 1
				stack = stack[:len(stack)-1]
			}
			sym := Symbol{Kind: kind, Name: name, StartLine: n, EndLine: n}
			if len(stack) > 0 {
				sym.Parent = out[stack[len(stack)-1].idx].Name
			}
			if includeDocs {
				sym.Doc = s.docAbove(lines, i)
			}
			out = append(out, sym)
			if kind == KindClass || kind == KindFunction {
				stack = append(stack, open{idx: len(out) - 1, depth: balance})
			}
		}

		balance += strings.Count(line, "{") - strings.Count(line, "}")
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if balance > top.depth {
				top.entered = true
				break
			}
			if !top.entered {
				break // brace may open on a following line
			}
			out[top.idx].EndLine = n
			stack = stack[:len(stack)-1]
		}
	}

	for len(stack) > 0 {
		out[stack[len(stack)-1].idx].EndLine = len(lines)
		stack = stack[:len(stack)-1]
	}
	return out
}

func (s *lineStrategy) matchDecl(line string) (SymbolKind, string, bool) {
	for _, rule := range s.rules {
		if rule.veto != nil && rule.veto.MatchString(line) {
			continue
		}
		m := rule.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if rule.join {
			var parts []string
			for _, group := range m[1:] {
				if group != "" {
					parts = append(parts, group)
				}
			}
			if len(parts) > 0 {
				return rule.kind, strings.Join(parts, "."), true
			}
			continue
		}
		for _, group := range m[1:] {
			if group != "" {
				return rule.kind, group, true
			}
		}
	}
	return "", "", false
}

// docAbove collects the contiguous line-comment block immediately preceding
// line i, stopping at the first blank or non-comment line.
func (s *lineStrategy) docAbove(lines []string, i int) string {
	if s.comment == "" {
		return ""
	}
	var block []string
	for j := i - 1; j >= 0; j-- {
		trimmed := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(trimmed, s.comment) {
			break
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, s.comment))
		block = append([]string{text}, block...)
	}
	return strings.Join(block, "\n")
}

// splitLines splits content into lines, dropping the phantom empty line a
// trailing newline would otherwise produce.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// indentWidth measures leading whitespace, counting tabs as four columns.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

func mustRule(kind SymbolKind, expr string) lineRule {
	return lineRule{kind: kind, re: regexp.MustCompile(expr)}
}

// pythonLineStrategy is the regex/indentation Python extractor; it backs
// the tree-sitter walker as a parse-failure fallback and is the primary
// Python path in cgo-less builds.
var pythonLineStrategy = &lineStrategy{
	comment: "#",
	rules: []lineRule{
		mustRule(KindImport, `^\s*import\s+([\w.]+)`),
		{kind: KindImport, re: regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+([\w*]+)`), join: true},
		mustRule(KindClass, `^\s*class\s+(\w+)`),
		mustRule(KindFunction, `^\s*(?:async\s+)?def\s+(\w+)`),
	},
}

var lineStrategies = map[language.Tag]*lineStrategy{
	language.JavaScript: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*import\s+.*?from\s+['"]([^'"]+)['"]`),
			mustRule(KindImport, `^\s*import\s+['"]([^'"]+)['"]`),
			mustRule(KindImport, `^\s*(?:const|let|var)\s+\w+\s*=\s*require\(\s*['"]([^'"]+)['"]`),
			mustRule(KindClass, `^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`),
			mustRule(KindFunction, `^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)`),
			mustRule(KindFunction, `^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*=>`),
			mustRule(KindVariable, `^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=`),
		},
	},
	language.TypeScript: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*import\s+.*?from\s+['"]([^'"]+)['"]`),
			mustRule(KindImport, `^\s*import\s+['"]([^'"]+)['"]`),
			mustRule(KindClass, `^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)`),
			mustRule(KindClass, `^\s*(?:export\s+)?interface\s+(\w+)`),
			mustRule(KindFunction, `^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)`),
			mustRule(KindFunction, `^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*=>`),
			mustRule(KindVariable, `^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=`),
		},
	},
	language.Java: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`),
			mustRule(KindClass, `^\s*(?:(?:public|private|protected|abstract|final|static)\s+)*(?:class|interface|enum|record)\s+(\w+)`),
			mustRule(KindFunction, `^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native)\s+)+[\w<>\[\],.\s]+?\s(\w+)\s*\([^;]*$`),
			mustRule(KindFunction, `^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native)\s+)+[\w<>\[\],.\s]+?\s(\w+)\s*\([^;]*\)\s*\{`),
		},
	},
	language.C: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*#\s*include\s+[<"]([^>"]+)[>"]`),
			mustRule(KindClass, `^\s*(?:typedef\s+)?(?:struct|union|enum)\s+(\w+)`),
			{
				kind: KindFunction,
				re:   regexp.MustCompile(`^[A-Za-z_][\w\s\*]*[\s\*](\w+)\s*\([^;]*\)\s*\{?\s*$`),
				veto: regexp.MustCompile(`^\s*(?:if|for|while|switch|return|else|do)\b|;\s*$`),
			},
		},
	},
	language.Cpp: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*#\s*include\s+[<"]([^>"]+)[>"]`),
			mustRule(KindImport, `^\s*using\s+namespace\s+([\w:]+)`),
			mustRule(KindClass, `^\s*(?:template\s*<[^>]*>\s*)?(?:class|struct)\s+(\w+)`),
			{
				kind: KindFunction,
				re:   regexp.MustCompile(`^[A-Za-z_][\w\s\*&:<>]*[\s\*&](\w+)\s*\([^;]*\)\s*(?:const\s*)?\{?\s*$`),
				veto: regexp.MustCompile(`^\s*(?:if|for|while|switch|return|else|do)\b|;\s*$`),
			},
		},
	},
	language.Go: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*import\s+(?:\w+\s+)?"([^"]+)"`),
			mustRule(KindClass, `^type\s+(\w+)\s+(?:struct|interface)\b`),
			mustRule(KindFunction, `^func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`),
			mustRule(KindVariable, `^(?:var|const)\s+(\w+)\b`),
		},
	},
	language.Rust: {
		comment: "//",
		braces:  true,
		rules: []lineRule{
			mustRule(KindImport, `^\s*use\s+([\w:]+)`),
			mustRule(KindClass, `^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+(\w+)`),
			mustRule(KindClass, `^\s*impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`),
			mustRule(KindFunction, `^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+(\w+)`),
		},
	},
	language.Ruby: {
		comment: "#",
		rules: []lineRule{
			mustRule(KindImport, `^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`),
			mustRule(KindClass, `^\s*(?:class|module)\s+(\w+)`),
			mustRule(KindFunction, `^\s*def\s+(?:self\.)?([\w?!]+)`),
		},
	},
	language.Unknown: {
		comment: "#",
		rules: []lineRule{
			mustRule(KindClass, `^\s*class\s+(\w+)`),
			mustRule(KindFunction, `^\s*(?:def|function|func)\s+(\w+)`),
		},
	},
}
