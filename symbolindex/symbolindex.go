// Package symbolindex maintains an in-memory Bleve index of symbol
// definitions extracted by the structural analyzer. It backs the
// find_definition tool: exact-name lookup across every analyzed file.
package symbolindex

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Entry is one symbol definition as stored in the index.
type Entry struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	Container string `json:"container"`
	Line      int    `json:"line"`
	EndLine   int    `json:"end_line"`
	Language  string `json:"language"`
}

// Index is a concurrency-safe symbol store. Documents are keyed per file so
// re-analysis of a changed file replaces its symbols atomically from the
// caller's point of view.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
	ids   map[string][]string // relative path -> document ids for that file
}

// New creates an empty in-memory symbol index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("creating symbol index: %w", err)
	}
	return &Index{index: idx, ids: make(map[string][]string)}, nil
}

// buildMapping declares exact-match keyword fields for name, kind, path and
// language, and stored numeric fields for line positions. Nothing is
// tokenized; definition lookup is term equality, not full-text search.
func buildMapping() *mapping.IndexMappingImpl {
	docMapping := bleve.NewDocumentMapping()

	keyword := func(field string) {
		fm := bleve.NewKeywordFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		docMapping.AddFieldMappingsAt(field, fm)
	}
	numeric := func(field string) {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		docMapping.AddFieldMappingsAt(field, fm)
	}

	keyword("name")
	keyword("kind")
	keyword("path")
	keyword("container")
	keyword("language")
	numeric("line")
	numeric("end_line")

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// IndexFile replaces all symbols previously stored for relPath with the
// given entries. Passing an empty slice clears the file's symbols.
func (ix *Index) IndexFile(relPath string, entries []Entry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, id := range ix.ids[relPath] {
		if err := ix.index.Delete(id); err != nil {
			return fmt.Errorf("replacing symbols for %s: %w", relPath, err)
		}
	}
	delete(ix.ids, relPath)

	if len(entries) == 0 {
		return nil
	}

	batch := ix.index.NewBatch()
	ids := make([]string, 0, len(entries))
	for i, entry := range entries {
		id := relPath + "#" + strconv.Itoa(i)
		if err := batch.Index(id, entry); err != nil {
			return fmt.Errorf("indexing symbol %s in %s: %w", entry.Name, relPath, err)
		}
		ids = append(ids, id)
	}
	if err := ix.index.Batch(batch); err != nil {
		return fmt.Errorf("indexing symbols for %s: %w", relPath, err)
	}
	ix.ids[relPath] = ids
	return nil
}

// RemoveFile drops every symbol recorded for relPath.
func (ix *Index) RemoveFile(relPath string) error {
	return ix.IndexFile(relPath, nil)
}

// FindByName returns definitions whose name equals the given symbol exactly,
// optionally restricted to one language tag, ordered by (path, line).
func (ix *Index) FindByName(name, lang string, limit int) ([]Entry, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	nameQuery := query.NewTermQuery(name)
	nameQuery.SetField("name")

	var q query.Query = nameQuery
	if lang != "" {
		langQuery := query.NewTermQuery(lang)
		langQuery.SetField("language")
		q = bleve.NewConjunctionQuery(nameQuery, langQuery)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}
	req.SortBy([]string{"path", "line"})

	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching symbol index: %w", err)
	}

	entries := make([]Entry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entries = append(entries, entryFromFields(hit.Fields))
	}
	return entries, nil
}

// Count returns the number of indexed symbol documents.
func (ix *Index) Count() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n, _ := ix.index.DocCount()
	return n
}

// FileCount returns the number of files with at least one indexed symbol.
func (ix *Index) FileCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.ids)
}

// Clear drops every document and recreates the backing index.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.index.Close(); err != nil {
		return fmt.Errorf("closing symbol index: %w", err)
	}
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("recreating symbol index: %w", err)
	}
	ix.index = idx
	ix.ids = make(map[string][]string)
	return nil
}

// Close releases the backing index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}

func entryFromFields(fields map[string]interface{}) Entry {
	str := func(key string) string {
		if v, ok := fields[key].(string); ok {
			return v
		}
		return ""
	}
	num := func(key string) int {
		if v, ok := fields[key].(float64); ok {
			return int(v)
		}
		return 0
	}
	return Entry{
		Name:      str("name"),
		Kind:      str("kind"),
		Path:      str("path"),
		Container: str("container"),
		Line:      num("line"),
		EndLine:   num("end_line"),
		Language:  str("language"),
	}
}
