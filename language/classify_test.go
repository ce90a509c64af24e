package language

import "testing"

func Test_Classify_KnownExtensions(t *testing.T) {
	cases := map[string]Tag{
		"src/app.py":      Python,
		"lib/util.js":     JavaScript,
		"web/index.tsx":   TypeScript,
		"Main.java":       Java,
		"kernel/mm.c":     C,
		"include/vec.hpp": Cpp,
		"cmd/main.go":     Go,
		"src/lib.rs":      Rust,
		"app/models.rb":   Ruby,
	}
	for path, want := range cases {
		if got := Classify(path, nil); got != want {
			t.Errorf("Classify(%q) = %s, want %s", path, got, want)
		}
	}
}

func Test_Classify_UnknownExtension(t *testing.T) {
	if got := Classify("data.bin", nil); got != Unknown {
		t.Errorf("expected unknown, got %s", got)
	}
	if got := Classify("README.md", nil); got != Unknown {
		t.Errorf("expected unknown for markdown, got %s", got)
	}
}

func Test_Classify_ShebangFallback(t *testing.T) {
	cases := map[string]Tag{
		"#!/usr/bin/env python3": Python,
		"#!/usr/bin/python":      Python,
		"#!/usr/bin/env node":    JavaScript,
		"#!/usr/bin/env ruby":    Ruby,
		"#!/bin/sh":              Unknown,
	}
	for line, want := range cases {
		if got := Classify("script", []byte(line)); got != want {
			t.Errorf("Classify(shebang %q) = %s, want %s", line, got, want)
		}
	}
}

func Test_Classify_ExtensionBeatsShebang(t *testing.T) {
	if got := Classify("tool.rb", []byte("#!/usr/bin/env python3")); got != Ruby {
		t.Errorf("expected ruby from extension, got %s", got)
	}
}

func Test_Parse_Names(t *testing.T) {
	if Parse("Python") != Python {
		t.Error("expected python")
	}
	if Parse("cobol") != Unknown {
		t.Error("expected unknown for unsupported name")
	}
}

func Test_Extensions_Roundtrip(t *testing.T) {
	for _, ext := range Extensions(Cpp) {
		tag, ok := FromExtension("x." + ext)
		if !ok || tag != Cpp {
			t.Errorf("extension %q did not map back to cpp", ext)
		}
	}
	if Extensions(Unknown) != nil {
		t.Error("unknown should have no extension filter")
	}
}
