package engine

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"codescope/analyzer"
	"codescope/cache"
	"codescope/fault"
	"codescope/language"
	"codescope/symbolindex"
)

// AnalyzeStructure extracts the symbol table for one file. Binary or
// undecodable content degrades to an empty report with a note; analysis
// itself never fails once the path resolves. Fresh reports also feed the
// symbol index so find_definition sees every analyzed file.
func (e *Engine) AnalyzeStructure(path string, includeDocs bool) (*analyzer.StructureReport, error) {
	ref, err := e.guard.Resolve(path)
	if err != nil {
		return nil, err
	}
	if ref.IsDir {
		return nil, fault.Wrap(fault.Decode, ref.RelPath, errIsDirectory)
	}

	key := cache.Query(cache.File(ref.RelPath, ref.Size, ref.ModTime),
		"analyze", strconv.FormatBool(includeDocs))
	if v, ok := e.cache.Get(key); ok {
		return v.(*analyzer.StructureReport), nil
	}

	report := e.analyzeFresh(ref.AbsPath, ref.RelPath, includeDocs)
	e.cache.Put(key, ref.RelPath, reportBytes(report), report)
	return report, nil
}

func (e *Engine) analyzeFresh(abs, rootRel string, includeDocs bool) *analyzer.StructureReport {
	content, err := e.reader.Read(abs, rootRel, "")
	if err != nil || content.Binary {
		note := "binary file; no structure extracted"
		if err != nil {
			note = "unreadable content; no structure extracted"
		}
		return &analyzer.StructureReport{Path: rootRel, Language: language.Unknown, Note: note}
	}

	tag := language.Classify(rootRel, firstLine(content.Text))
	report := analyzer.Analyze(rootRel, tag, content.Text, includeDocs)
	if err := e.symbols.IndexFile(rootRel, symbolEntries(report)); err != nil {
		e.logger.Warn("symbol indexing failed", "path", rootRel, "error", err)
	}
	return report
}

// FindDefinition locates declarations of an exactly-named symbol under dir.
// Candidate files are analyzed on demand (cache-assisted) so the symbol
// index covers the queried subtree before the lookup runs.
func (e *Engine) FindDefinition(symbol, dir, langName string, limit int) ([]symbolindex.Entry, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fault.New(fault.InvalidPattern, symbol)
	}
	if limit <= 0 || limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}

	ref, err := e.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}
	if !ref.IsDir {
		return nil, fault.Wrap(fault.NotFound, ref.RelPath, errNotDirectory)
	}

	tag := language.Parse(langName)
	exts := language.Extensions(tag)

	var candidates []string
	err = e.walkFiles(ref.AbsPath, ref.RelPath, func(rootRel, abs string, size int64, modTime time.Time) bool {
		if _, ok := language.FromExtension(rootRel); !ok {
			return true
		}
		if len(exts) > 0 && !hasExtension(rootRel, exts) {
			return true
		}
		candidates = append(candidates, rootRel)
		return true
	})
	if err != nil {
		return nil, err
	}

	// Analysis is CPU-bound once content is loaded; a small worker pool
	// keeps large trees tolerable without holding any shared lock during
	// the parse phase.
	start := time.Now()
	e.analyzeAll(candidates)

	langFilter := ""
	if tag != language.Unknown {
		langFilter = string(tag)
	}
	entries, err := e.symbols.FindByName(symbol, langFilter, limit)
	if err != nil {
		return nil, err
	}

	// The index spans the whole root; keep only hits under the queried
	// directory.
	prefix := ref.RelPath
	if prefix == "." {
		prefix = ""
	}
	kept := entries[:0]
	for _, entry := range entries {
		if prefix == "" || entry.Path == prefix || strings.HasPrefix(entry.Path, prefix+"/") {
			kept = append(kept, entry)
		}
	}

	e.logger.Debug("definition lookup",
		"symbol", symbol,
		"candidates", len(candidates),
		"hits", len(kept),
		"elapsed", time.Since(start))
	return kept, nil
}

// analyzeAll runs cache-assisted analysis over many files with a bounded
// worker pool. Cached files cost one fingerprint lookup each.
func (e *Engine) analyzeAll(relPaths []string) {
	const workerCount = 8

	jobs := make(chan string, len(relPaths))
	for _, rel := range relPaths {
		jobs <- rel
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				if _, err := e.AnalyzeStructure(rel, false); err != nil {
					e.logger.Debug("analysis skipped", "path", rel, "error", err)
				}
			}
		}()
	}
	wg.Wait()
}

// symbolEntries converts declaration symbols (not imports) into index rows.
func symbolEntries(report *analyzer.StructureReport) []symbolindex.Entry {
	entries := make([]symbolindex.Entry, 0, len(report.Symbols))
	for _, s := range report.Symbols {
		if s.Kind == analyzer.KindImport {
			continue
		}
		entries = append(entries, symbolindex.Entry{
			Name:      s.Name,
			Kind:      string(s.Kind),
			Path:      report.Path,
			Container: s.Parent,
			Line:      s.StartLine,
			EndLine:   s.EndLine,
			Language:  string(report.Language),
		})
	}
	return entries
}

func hasExtension(rootRel string, exts []string) bool {
	lower := strings.ToLower(rootRel)
	for _, ext := range exts {
		if strings.HasSuffix(lower, "."+ext) {
			return true
		}
	}
	return false
}

func reportBytes(report *analyzer.StructureReport) int {
	n := len(report.Path) + len(report.Note) + 32
	for _, s := range report.Symbols {
		n += len(s.Name) + len(s.Doc) + len(s.Parent) + 24
	}
	return n
}
