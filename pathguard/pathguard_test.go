package pathguard

import (
	"os"
	"path/filepath"
	"testing"

	"codescope/fault"
)

func newTestGuard(t *testing.T) (*Guard, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	g, err := New(root)
	if err != nil {
		t.Fatalf("creating guard: %v", err)
	}
	return g, g.Root()
}

func Test_Guard_ResolveRelativeInsideRoot(t *testing.T) {
	g, root := newTestGuard(t)

	ref, err := g.Resolve("main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.RelPath != "main.go" {
		t.Errorf("expected relPath main.go, got %s", ref.RelPath)
	}
	if ref.AbsPath != filepath.Join(root, "main.go") {
		t.Errorf("unexpected absPath %s", ref.AbsPath)
	}
	if ref.IsDir {
		t.Error("expected file, got directory")
	}
}

func Test_Guard_ResolveEmptyIsRoot(t *testing.T) {
	g, root := newTestGuard(t)

	ref, err := g.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.AbsPath != root {
		t.Errorf("expected root %s, got %s", root, ref.AbsPath)
	}
	if !ref.IsDir {
		t.Error("expected root to be a directory")
	}
}

func Test_Guard_DotDotEscapeFails(t *testing.T) {
	g, _ := newTestGuard(t)

	_, err := g.Resolve("../../etc/passwd")
	if !fault.Is(err, fault.PathViolation) {
		t.Fatalf("expected PathViolation, got %v", err)
	}
}

func Test_Guard_AbsoluteOutsideRootFails(t *testing.T) {
	g, _ := newTestGuard(t)

	_, err := g.Resolve("/etc/passwd")
	if !fault.Is(err, fault.PathViolation) {
		t.Fatalf("expected PathViolation, got %v", err)
	}
}

func Test_Guard_DotDotWithinRootAllowed(t *testing.T) {
	g, _ := newTestGuard(t)

	ref, err := g.Resolve("src/../main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.RelPath != "main.go" {
		t.Errorf("expected main.go, got %s", ref.RelPath)
	}
}

func Test_Guard_SymlinkEscapeFails(t *testing.T) {
	g, root := newTestGuard(t)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0644); err != nil {
		t.Fatalf("writing outside file: %v", err)
	}
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := g.Resolve("link.txt")
	if !fault.Is(err, fault.PathViolation) {
		t.Fatalf("expected PathViolation for symlink escape, got %v", err)
	}
}

func Test_Guard_MissingFileIsNotFound(t *testing.T) {
	g, _ := newTestGuard(t)

	_, err := g.Resolve("nope.go")
	if !fault.Is(err, fault.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
