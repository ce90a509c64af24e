package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Matcher_SkipsDefaultDirs(t *testing.T) {
	m := New(t.TempDir(), nil)

	for _, dir := range []string{"node_modules", ".git", "__pycache__", "src/node_modules"} {
		if !m.SkipDir(dir) {
			t.Errorf("expected %s to be skipped", dir)
		}
	}
	if m.SkipDir("src") {
		t.Error("src must not be skipped")
	}
}

func Test_Matcher_SkipsBinaryExtensions(t *testing.T) {
	m := New(t.TempDir(), nil)

	if !m.Skip("bin/app.exe", false) {
		t.Error("expected .exe to be skipped")
	}
	if !m.Skip("assets/logo.png", false) {
		t.Error("expected .png to be skipped")
	}
	if m.Skip("main.go", false) {
		t.Error("source files must not be skipped")
	}
}

func Test_Matcher_GitignoreRules(t *testing.T) {
	root := t.TempDir()
	content := "*.generated.go\nsecret/\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(root, nil)

	if !m.Skip("models.generated.go", false) {
		t.Error("expected *.generated.go to be skipped")
	}
	if !m.Skip("secret", true) {
		t.Error("expected secret/ directory to be skipped")
	}
	if m.Skip("models.go", false) {
		t.Error("models.go must not be skipped")
	}
}

func Test_Matcher_CustomExcludes(t *testing.T) {
	m := New(t.TempDir(), []string{"**/*_gen.go", "tmp"})

	if !m.Skip("pkg/types_gen.go", false) {
		t.Error("expected glob exclude to apply to nested paths")
	}
	if !m.Skip("tmp", true) {
		t.Error("expected basename exclude to apply")
	}
	if m.Skip("pkg/types.go", false) {
		t.Error("non-matching file must not be skipped")
	}
}

func Test_Matcher_InvalidExcludeDropped(t *testing.T) {
	m := New(t.TempDir(), []string{"[bad"})

	if m.Skip("anything.go", false) {
		t.Error("invalid pattern must be dropped, not match everything")
	}
}

func Test_Matcher_Reload(t *testing.T) {
	root := t.TempDir()
	m := New(root, nil)

	if m.Skip("notes.txt", false) {
		t.Fatal("nothing should be ignored before .gitignore exists")
	}

	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("notes.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m.Reload()

	if !m.Skip("notes.txt", false) {
		t.Error("expected reloaded rules to apply")
	}
}

func Test_Matcher_RootNeverSkipped(t *testing.T) {
	m := New(t.TempDir(), []string{"*"})
	if m.Skip(".", true) {
		t.Error("the root itself must never be skipped")
	}
}
