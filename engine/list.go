package engine

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"codescope/fault"
)

// ListEntry is one row of a directory listing.
type ListEntry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"isDirectory"`
	Size  int64  `json:"size"`
}

// Listing is the result of a list_files query. Entries are in lexical walk
// order; Truncated is set exactly when more entries would have matched.
type Listing struct {
	Entries   []ListEntry `json:"entries"`
	Truncated bool        `json:"truncated"`
}

// ListFiles walks the directory at dir, applying the ignore rules, an
// optional doublestar glob over paths relative to dir, and the depth and
// entry ceilings. Listings are not cached: no single fingerprint covers a
// directory tree, so a stale entry could survive an arbitrary child change.
func (e *Engine) ListFiles(dir, pattern string, recursive bool) (*Listing, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fault.New(fault.InvalidPattern, pattern)
	}

	ref, err := e.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}
	if !ref.IsDir {
		return nil, fault.Wrap(fault.NotFound, ref.RelPath, errNotDirectory)
	}

	maxDepth := e.cfg.MaxDepth
	if !recursive {
		maxDepth = 1
	}

	listing := &Listing{}
	err = filepath.WalkDir(ref.AbsPath, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are isolated, not fatal to the listing.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == ref.AbsPath {
			return nil
		}

		rel, err := filepath.Rel(ref.AbsPath, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		rootRel := path.Join(ref.RelPath, rel)

		if e.ignores.Skip(rootRel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		atDepthLimit := d.IsDir() && depthOf(rel) >= maxDepth

		matched := pattern == ""
		if !matched {
			matched, _ = doublestar.Match(pattern, rel)
		}
		if matched {
			if len(listing.Entries) >= e.cfg.MaxEntries {
				listing.Truncated = true
				return fs.SkipAll
			}
			entry := ListEntry{Path: rootRel, IsDir: d.IsDir()}
			if info, err := d.Info(); err == nil && !d.IsDir() {
				entry.Size = info.Size()
			}
			listing.Entries = append(listing.Entries, entry)
		}
		if atDepthLimit {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, ref.RelPath, err)
	}
	return listing, nil
}

func depthOf(rel string) int {
	return strings.Count(rel, "/") + 1
}
