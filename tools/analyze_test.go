package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_AnalyzeHandler_EmptyPath(t *testing.T) {
	h := &AnalyzeHandler{Engine: newTestEngine(t, nil), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, AnalyzeArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty path")
	}
}

func Test_AnalyzeHandler_PythonReport(t *testing.T) {
	h := &AnalyzeHandler{
		Engine: newTestEngine(t, map[string]string{
			"app.py": "import os\n\nclass App:\n    def run(self):\n        pass\n",
		}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, AnalyzeArgs{Path: "app.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "imports: 1, classes: 1, functions: 1") {
		t.Errorf("expected counts line, got:\n%s", text)
	}
	if !strings.Contains(text, "class") || !strings.Contains(text, "App") {
		t.Errorf("expected class symbol, got:\n%s", text)
	}
	if !strings.Contains(text, "  function") {
		t.Errorf("expected nested method indented, got:\n%s", text)
	}
}

func Test_AnalyzeHandler_UnknownLanguageNote(t *testing.T) {
	h := &AnalyzeHandler{
		Engine: newTestEngine(t, map[string]string{"data.xyz": "class Thing\nend\n"}),
		Logger: testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, AnalyzeArgs{Path: "data.xyz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unknown language must degrade, not fail: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "note:") {
		t.Errorf("expected diagnostic note, got:\n%s", resultText(t, result))
	}
}
