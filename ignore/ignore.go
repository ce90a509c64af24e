// Package ignore decides which paths the engine walks over. One Matcher
// combines built-in defaults, the workspace .gitignore, and exclude patterns
// supplied on the command line into a single skip decision.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher answers skip queries over root-relative forward-slash paths.
// Reload takes the write lock; Skip and SkipDir take the read lock.
type Matcher struct {
	mu       sync.RWMutex
	root     string
	git      gitignore.GitIgnore
	excludes []string
}

// New builds a Matcher for the tree rooted at root. Exclude patterns are
// doublestar globs matched against relative paths and basenames; invalid
// patterns are dropped at construction so walks never see a pattern error.
func New(root string, excludes []string) *Matcher {
	kept := make([]string, 0, len(excludes))
	for _, pat := range excludes {
		pat = filepath.ToSlash(pat)
		if doublestar.ValidatePattern(pat) {
			kept = append(kept, pat)
		}
	}
	return &Matcher{
		root:     root,
		git:      loadGitignore(root),
		excludes: kept,
	}
}

// Skip reports whether a root-relative path should be excluded.
func (m *Matcher) Skip(relPath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relPath = filepath.ToSlash(relPath)
	if relPath == "." || relPath == "" {
		return false
	}

	if matchesDefaults(relPath, isDir) {
		return true
	}
	if m.git != nil {
		if match := m.git.Relative(relPath, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	for _, pat := range m.excludes {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, path.Base(relPath)); ok {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory subtree should be pruned without
// descending into it.
func (m *Matcher) SkipDir(relPath string) bool {
	return m.Skip(relPath, true)
}

// Reload re-reads the .gitignore file. The watcher calls this when the file
// itself changes.
func (m *Matcher) Reload() {
	git := loadGitignore(m.root)
	m.mu.Lock()
	m.git = git
	m.mu.Unlock()
}

func matchesDefaults(relPath string, isDir bool) bool {
	base := path.Base(relPath)
	if isDir {
		if _, ok := skipDirs[base]; ok {
			return true
		}
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := skipExts[ext]; ok {
		return true
	}
	_, ok := skipFiles[base]
	return ok
}

func loadGitignore(root string) gitignore.GitIgnore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, root, nil)
}
