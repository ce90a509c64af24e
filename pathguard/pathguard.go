// Package pathguard resolves requested paths against a single sandbox root
// and rejects anything that escapes it. Every engine operation goes through
// Resolve before any file content is touched.
package pathguard

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codescope/fault"
)

// FileRef is the validated identity of a file or directory inside the root.
type FileRef struct {
	AbsPath string // symlink-resolved absolute path
	RelPath string // root-relative path, forward slashes
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Guard validates paths against one configured root directory.
type Guard struct {
	root string // absolute, symlink-resolved
}

// New creates a guard for the given root. The root must exist and be a
// directory; it is resolved to its real path so symlinked roots behave
// consistently.
func New(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fault.New(fault.NotFound, root)
	}
	return &Guard{root: resolved}, nil
}

// Root returns the resolved sandbox root.
func (g *Guard) Root() string { return g.root }

// Resolve validates requested against the root and returns its FileRef.
// Empty input resolves to the root itself. Relative paths are joined with
// the root; absolute paths must already point inside it. The lexical escape
// check runs before any filesystem access, so traversal attempts fail
// without a single stat or read. Symlinks are then resolved and the check
// repeats, so links pointing outside the root are also rejected.
//
// There is an accepted race between this validation and the subsequent
// read: a path can be swapped for a symlink after Resolve returns. The
// engine treats the filesystem as cooperative within the root.
func (g *Guard) Resolve(requested string) (FileRef, error) {
	joined := requested
	if joined == "" {
		joined = g.root
	} else if !filepath.IsAbs(joined) {
		joined = filepath.Join(g.root, filepath.FromSlash(joined))
	}
	joined = filepath.Clean(joined)

	if escapes(g.root, joined) {
		return FileRef{}, fault.New(fault.PathViolation, requested)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if os.IsNotExist(err) {
			return FileRef{}, fault.New(fault.NotFound, requested)
		}
		return FileRef{}, fault.Wrap(fault.NotFound, requested, err)
	}
	if escapes(g.root, resolved) {
		return FileRef{}, fault.New(fault.PathViolation, requested)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return FileRef{}, fault.Wrap(fault.NotFound, requested, err)
	}

	rel, err := filepath.Rel(g.root, resolved)
	if err != nil {
		return FileRef{}, fault.New(fault.PathViolation, requested)
	}

	return FileRef{
		AbsPath: resolved,
		RelPath: filepath.ToSlash(rel),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// escapes reports whether candidate falls outside root. Both arguments must
// be cleaned absolute paths.
func escapes(root, candidate string) bool {
	if candidate == root {
		return false
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
