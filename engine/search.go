package engine

import (
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"codescope/cache"
	"codescope/fault"
	"codescope/searcher"
)

// SearchOptions parameterizes one search_code query. Zero values fall back
// to the engine's configured ceilings.
type SearchOptions struct {
	Pattern       string
	Directory     string
	FilePattern   string // doublestar glob over root-relative paths
	CaseSensitive bool
	MaxResults    int
	ContextLines  int
}

// SearchResult is the outcome of a search_code query. Matches are ordered
// by (path, line); Truncated is set exactly when matches beyond the cap
// exist, either past the global ceiling or dropped by a per-file cap.
type SearchResult struct {
	Matches      []searcher.Match `json:"matches"`
	Truncated    bool             `json:"truncated"`
	FilesScanned int              `json:"filesScanned"`
	FilesSkipped int              `json:"filesSkipped"` // binary, oversize, or undecodable
}

// SearchCode compiles the pattern, walks candidate files in lexical order,
// and scans each one. Compilation failures surface before any file is
// opened. Per-file scan results are cached under the file fingerprint plus
// the query signature; unreadable files are tallied and skipped, never
// fatal.
func (e *Engine) SearchCode(opts SearchOptions) (*SearchResult, error) {
	if opts.MaxResults <= 0 || opts.MaxResults > e.cfg.MaxResults {
		opts.MaxResults = e.cfg.MaxResults
	}
	if opts.ContextLines <= 0 {
		opts.ContextLines = e.cfg.ContextLines
	}

	scan, err := searcher.Compile(opts.Pattern, opts.CaseSensitive, e.cfg.MaxPerFile, opts.ContextLines)
	if err != nil {
		return nil, err
	}
	if opts.FilePattern != "" && !doublestar.ValidatePattern(opts.FilePattern) {
		return nil, fault.New(fault.InvalidPattern, opts.FilePattern)
	}

	ref, err := e.guard.Resolve(opts.Directory)
	if err != nil {
		return nil, err
	}
	if !ref.IsDir {
		return nil, fault.Wrap(fault.NotFound, ref.RelPath, errNotDirectory)
	}

	signature := []string{
		"search",
		scan.Pattern(),
		strconv.Itoa(e.cfg.MaxPerFile),
		strconv.Itoa(opts.ContextLines),
	}

	result := &SearchResult{}
	start := time.Now()
	err = e.walkFiles(ref.AbsPath, ref.RelPath, func(rootRel, abs string, size int64, modTime time.Time) bool {
		if opts.FilePattern != "" {
			if ok, _ := doublestar.Match(opts.FilePattern, rootRel); !ok {
				return true
			}
		}

		matches, fileTruncated, ok := e.scanOne(scan, signature, rootRel, abs, size, modTime)
		if !ok {
			result.FilesSkipped++
			return true
		}
		result.FilesScanned++
		if fileTruncated {
			result.Truncated = true
		}

		for _, m := range matches {
			if len(result.Matches) >= opts.MaxResults {
				result.Truncated = true
				return false
			}
			result.Matches = append(result.Matches, m)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("search complete",
		"pattern", opts.Pattern,
		"matches", len(result.Matches),
		"scanned", result.FilesScanned,
		"skipped", result.FilesSkipped,
		"elapsed", time.Since(start))
	return result, nil
}

// scanOne returns the per-file matches, consulting the cache first. The
// third return is false when the file could not be read as text.
func (e *Engine) scanOne(scan *searcher.Searcher, signature []string, rootRel, abs string, size int64, modTime time.Time) ([]searcher.Match, bool, bool) {
	key := cache.Query(cache.File(rootRel, size, modTime), signature...)
	if v, ok := e.cache.Get(key); ok {
		cached := v.(fileMatches)
		return cached.matches, cached.truncated, true
	}

	content, err := e.reader.Read(abs, rootRel, "")
	if err != nil || content.Binary {
		return nil, false, false
	}

	matches, truncated := scan.ScanFile(rootRel, content.Text)
	e.cache.Put(key, rootRel, matchBytes(matches), fileMatches{matches: matches, truncated: truncated})
	return matches, truncated, true
}

// fileMatches is the cached per-file scan result.
type fileMatches struct {
	matches   []searcher.Match
	truncated bool
}

// walkFiles visits regular files under absRoot in lexical order, honoring
// ignore rules and the depth ceiling. The visitor returns false to stop the
// walk early.
func (e *Engine) walkFiles(absRoot, relRoot string, visit func(rootRel, abs string, size int64, modTime time.Time) bool) error {
	return filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		rootRel := path.Join(relRoot, rel)

		if d.IsDir() {
			if e.ignores.SkipDir(rootRel) || depthOf(rel) >= e.cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || e.ignores.Skip(rootRel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !visit(rootRel, p, info.Size(), info.ModTime()) {
			return fs.SkipAll
		}
		return nil
	})
}

func matchBytes(matches []searcher.Match) int {
	n := 0
	for _, m := range matches {
		n += len(m.Path) + len(m.Text) + 16
		for _, c := range m.Before {
			n += len(c)
		}
		for _, c := range m.After {
			n += len(c)
		}
	}
	return n
}
