// Package language maps files to one of a fixed set of language tags. The
// tag selects the structural analyzer strategy; unknown never fails, it
// routes to the generic heuristic.
package language

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Tag identifies a supported language.
type Tag string

const (
	Python     Tag = "python"
	JavaScript Tag = "javascript"
	TypeScript Tag = "typescript"
	Java       Tag = "java"
	C          Tag = "c"
	Cpp        Tag = "cpp"
	Go         Tag = "go"
	Rust       Tag = "rust"
	Ruby       Tag = "ruby"
	Unknown    Tag = "unknown"
)

var extToTag = map[string]Tag{
	"py": Python, "pyi": Python, "pyw": Python,
	"js": JavaScript, "jsx": JavaScript, "mjs": JavaScript, "cjs": JavaScript,
	"ts": TypeScript, "tsx": TypeScript, "mts": TypeScript, "cts": TypeScript,
	"java": Java,
	"c":    C, "h": C,
	"cpp": Cpp, "cc": Cpp, "cxx": Cpp, "hpp": Cpp, "hxx": Cpp,
	"go": Go,
	"rs": Rust,
	"rb": Ruby, "rake": Ruby,
}

// extensions is the reverse mapping, used to build file filters for
// language-scoped operations like find_definition.
var extensions = map[Tag][]string{
	Python:     {"py", "pyi", "pyw"},
	JavaScript: {"js", "jsx", "mjs", "cjs"},
	TypeScript: {"ts", "tsx", "mts", "cts"},
	Java:       {"java"},
	C:          {"c", "h"},
	Cpp:        {"cpp", "cc", "cxx", "hpp", "hxx"},
	Go:         {"go"},
	Rust:       {"rs"},
	Ruby:       {"rb", "rake"},
}

// Classify returns the language tag for a file path. firstLine, when
// non-nil, is consulted for a shebang if the extension is not recognized.
func Classify(path string, firstLine []byte) Tag {
	if tag, ok := FromExtension(path); ok {
		return tag
	}
	if tag := fromShebang(firstLine); tag != Unknown {
		return tag
	}
	return Unknown
}

// FromExtension maps a file extension to a tag, plus a few well-known
// extensionless names.
func FromExtension(path string) (Tag, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		switch strings.ToLower(filepath.Base(path)) {
		case "gemfile", "rakefile":
			return Ruby, true
		}
		return Unknown, false
	}
	if tag, ok := extToTag[ext]; ok {
		return tag, true
	}
	return Unknown, false
}

// Parse parses a tag name supplied by a caller; anything unrecognized maps
// to Unknown.
func Parse(name string) Tag {
	switch Tag(strings.ToLower(strings.TrimSpace(name))) {
	case Python, JavaScript, TypeScript, Java, C, Cpp, Go, Rust, Ruby:
		return Tag(strings.ToLower(strings.TrimSpace(name)))
	}
	return Unknown
}

// Extensions returns the file extensions (without dot) for a tag. Unknown
// returns nil, meaning no extension filter.
func Extensions(tag Tag) []string {
	return extensions[tag]
}

// fromShebang inspects an interpreter line like "#!/usr/bin/env python3".
func fromShebang(line []byte) Tag {
	if !bytes.HasPrefix(line, []byte("#!")) {
		return Unknown
	}
	s := string(line)
	switch {
	case strings.Contains(s, "python"):
		return Python
	case strings.Contains(s, "node"):
		return JavaScript
	case strings.Contains(s, "ruby"):
		return Ruby
	}
	return Unknown
}
