package analyzer

import (
	"testing"

	"codescope/language"
)

func findSymbol(t *testing.T, report *StructureReport, kind SymbolKind, name string) Symbol {
	t.Helper()
	for _, s := range report.Symbols {
		if s.Kind == kind && s.Name == name {
			return s
		}
	}
	t.Fatalf("symbol %s %q not found in %+v", kind, name, report.Symbols)
	return Symbol{}
}

func Test_Analyze_PythonSingleFunction(t *testing.T) {
	report := Analyze("a.py", language.Python, "def foo():\n    pass\n", false)

	if report.Functions != 1 {
		t.Fatalf("expected 1 function, got %d", report.Functions)
	}
	foo := findSymbol(t, report, KindFunction, "foo")
	if foo.StartLine != 1 || foo.EndLine != 2 {
		t.Errorf("expected foo at lines 1-2, got %d-%d", foo.StartLine, foo.EndLine)
	}
	if foo.Parent != "" {
		t.Errorf("expected top-level function, got parent %q", foo.Parent)
	}
}

func Test_Analyze_PythonNestedMethod(t *testing.T) {
	report := Analyze("b.py", language.Python, "class Bar:\n    def baz(self):\n        pass\n", false)

	bar := findSymbol(t, report, KindClass, "Bar")
	if bar.StartLine != 1 || bar.EndLine != 3 {
		t.Errorf("expected Bar at lines 1-3, got %d-%d", bar.StartLine, bar.EndLine)
	}
	baz := findSymbol(t, report, KindFunction, "baz")
	if baz.StartLine != 2 || baz.EndLine != 3 {
		t.Errorf("expected baz at lines 2-3, got %d-%d", baz.StartLine, baz.EndLine)
	}
	if baz.Parent != "Bar" {
		t.Errorf("expected baz parent Bar, got %q", baz.Parent)
	}
}

func Test_Analyze_PythonImports(t *testing.T) {
	content := "import os\nfrom pathlib import Path\n\ndef main():\n    pass\n"
	report := Analyze("m.py", language.Python, content, false)

	if report.Imports != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", report.Imports, report.Symbols)
	}
	findSymbol(t, report, KindImport, "os")
	findSymbol(t, report, KindImport, "pathlib.Path")
}

func Test_Analyze_Deterministic(t *testing.T) {
	content := "class A:\n    def m(self):\n        pass\n\ndef f():\n    pass\n"
	first := Analyze("d.py", language.Python, content, true)
	second := Analyze("d.py", language.Python, content, true)

	if len(first.Symbols) != len(second.Symbols) {
		t.Fatalf("symbol counts differ: %d vs %d", len(first.Symbols), len(second.Symbols))
	}
	for i := range first.Symbols {
		if first.Symbols[i] != second.Symbols[i] {
			t.Errorf("symbol %d differs: %+v vs %+v", i, first.Symbols[i], second.Symbols[i])
		}
	}
}

func Test_Analyze_GoDeclarations(t *testing.T) {
	content := `package main

import "fmt"

type Server struct {
	addr string
}

func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

func main() {
	fmt.Println("up")
}
`
	report := Analyze("main.go", language.Go, content, false)

	findSymbol(t, report, KindImport, "fmt")
	server := findSymbol(t, report, KindClass, "Server")
	if server.StartLine != 5 || server.EndLine != 7 {
		t.Errorf("expected Server at lines 5-7, got %d-%d", server.StartLine, server.EndLine)
	}
	ns := findSymbol(t, report, KindFunction, "NewServer")
	if ns.StartLine != 9 || ns.EndLine != 11 {
		t.Errorf("expected NewServer at lines 9-11, got %d-%d", ns.StartLine, ns.EndLine)
	}
	if report.Functions != 2 {
		t.Errorf("expected 2 functions, got %d", report.Functions)
	}
}

func Test_Analyze_JavaScriptDeclarations(t *testing.T) {
	content := `import { thing } from './thing';

class Widget {
  render() {}
}

function helper(x) {
  return x;
}

const squared = (n) => n * n;
`
	report := Analyze("app.js", language.JavaScript, content, false)

	findSymbol(t, report, KindImport, "./thing")
	findSymbol(t, report, KindClass, "Widget")
	findSymbol(t, report, KindFunction, "helper")
	findSymbol(t, report, KindFunction, "squared")
}

func Test_Analyze_UnknownLanguageHeuristic(t *testing.T) {
	content := "class Thing\n  def run\n  end\nend\n"
	report := Analyze("weird.xyz", language.Unknown, content, false)

	if report.Note == "" {
		t.Error("expected diagnostic note for unknown language")
	}
	findSymbol(t, report, KindClass, "Thing")
	run := findSymbol(t, report, KindFunction, "run")
	if run.Parent != "Thing" {
		t.Errorf("expected run nested in Thing, got parent %q", run.Parent)
	}
}

func Test_Analyze_RubyDeclarations(t *testing.T) {
	content := "require 'json'\n\nclass Parser\n  def parse(input)\n    input\n  end\nend\n"
	report := Analyze("parser.rb", language.Ruby, content, false)

	findSymbol(t, report, KindImport, "json")
	findSymbol(t, report, KindClass, "Parser")
	parse := findSymbol(t, report, KindFunction, "parse")
	if parse.Parent != "Parser" {
		t.Errorf("expected parse inside Parser, got parent %q", parse.Parent)
	}
}

func Test_Analyze_DocCommentCapture(t *testing.T) {
	content := `// NewClient builds a client.
// It never returns nil.
func NewClient() {}

// unrelated comment

func Other() {}
`
	report := Analyze("c.go", language.Go, content, true)

	nc := findSymbol(t, report, KindFunction, "NewClient")
	if nc.Doc != "NewClient builds a client.\nIt never returns nil." {
		t.Errorf("unexpected doc: %q", nc.Doc)
	}
	other := findSymbol(t, report, KindFunction, "Other")
	if other.Doc != "" {
		t.Errorf("blank line should cut the doc block, got %q", other.Doc)
	}
}

func Test_Analyze_EmptyContent(t *testing.T) {
	report := Analyze("empty.py", language.Python, "", false)
	if len(report.Symbols) != 0 {
		t.Errorf("expected no symbols, got %d", len(report.Symbols))
	}
}

func Test_Analyze_LineInvariant(t *testing.T) {
	content := "def a():\n    pass\n\nclass B:\n    def c(self):\n        return 1\n"
	report := Analyze("inv.py", language.Python, content, false)

	for _, s := range report.Symbols {
		if s.StartLine < 1 {
			t.Errorf("%s %q start line %d not 1-based", s.Kind, s.Name, s.StartLine)
		}
		if s.StartLine > s.EndLine {
			t.Errorf("%s %q start %d > end %d", s.Kind, s.Name, s.StartLine, s.EndLine)
		}
	}
}
