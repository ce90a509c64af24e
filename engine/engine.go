// Package engine composes the path guard, reader, classifier, analyzer,
// searcher, cache, and symbol index into the query facade the MCP tools
// call. Every operation validates its path first, consults the cache, and
// falls through to the owning component on a miss. Engine methods are safe
// for concurrent use; the cache and symbol index guard themselves.
package engine

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"codescope/cache"
	"codescope/fault"
	"codescope/ignore"
	"codescope/language"
	"codescope/pathguard"
	"codescope/reader"
	"codescope/symbolindex"
)

// Config carries the resource ceilings. Each component enforces its own
// bound locally and fails closed rather than growing without limit.
type Config struct {
	MaxFileSize  int64 // reader ceiling, bytes
	MaxResults   int   // global search match cap
	MaxPerFile   int   // per-file search match cap
	MaxEntries   int   // listing entry cap
	MaxDepth     int   // recursive walk depth bound
	ContextLines int   // default search context lines
	CacheEntries int
	CacheBytes   int
}

func (c Config) withDefaults() Config {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 1024 * 1024
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 100
	}
	if c.MaxPerFile <= 0 {
		c.MaxPerFile = 20
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 500
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 32
	}
	if c.ContextLines < 0 {
		c.ContextLines = 0
	}
	return c
}

// Engine is the query facade over one sandboxed project root.
type Engine struct {
	cfg     Config
	guard   *pathguard.Guard
	reader  *reader.Reader
	ignores *ignore.Matcher
	cache   *cache.Cache
	symbols *symbolindex.Index
	logger  *slog.Logger
	started time.Time
}

// New wires an engine over the given root components.
func New(guard *pathguard.Guard, ignores *ignore.Matcher, symbols *symbolindex.Index, store *cache.Cache, cfg Config, logger *slog.Logger) *Engine {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		guard:   guard,
		reader:  reader.New(cfg.MaxFileSize),
		ignores: ignores,
		cache:   store,
		symbols: symbols,
		logger:  logger,
		started: time.Now(),
	}
}

// Root returns the resolved sandbox root.
func (e *Engine) Root() string { return e.guard.Root() }

var errIsDirectory = errors.New("is a directory")
var errNotDirectory = errors.New("not a directory")

// FileContent is the result of a read_file query.
type FileContent struct {
	Path      string       `json:"path"`
	Language  language.Tag `json:"language"`
	Text      string       `json:"text"`
	Lines     int          `json:"lines"`
	Truncated bool         `json:"truncated"`
}

// ReadFile loads and decodes one file. Binary content is fatal here; the
// read operation only answers for text.
func (e *Engine) ReadFile(path, encoding string) (*FileContent, error) {
	ref, err := e.guard.Resolve(path)
	if err != nil {
		return nil, err
	}
	if ref.IsDir {
		return nil, fault.Wrap(fault.Decode, ref.RelPath, errIsDirectory)
	}

	key := cache.Query(cache.File(ref.RelPath, ref.Size, ref.ModTime), "read", encoding)
	if v, ok := e.cache.Get(key); ok {
		return v.(*FileContent), nil
	}

	content, err := e.reader.Read(ref.AbsPath, ref.RelPath, encoding)
	if err != nil {
		return nil, err
	}
	if content.Binary {
		return nil, fault.New(fault.Decode, ref.RelPath)
	}

	fc := &FileContent{
		Path:     ref.RelPath,
		Language: language.Classify(ref.RelPath, firstLine(content.Text)),
		Text:     content.Text,
		Lines:    countLines(content.Text),
	}
	e.cache.Put(key, ref.RelPath, len(fc.Text)+len(fc.Path), fc)
	return fc, nil
}

// Info is the result of a file_info query. Lines is -1 when the content
// could not be decoded or exceeded the size ceiling.
type Info struct {
	Path     string       `json:"path"`
	Name     string       `json:"name"`
	IsDir    bool         `json:"isDirectory"`
	Size     int64        `json:"size"`
	ModTime  time.Time    `json:"modTime"`
	Language language.Tag `json:"language"`
	Lines    int          `json:"lines"`
	Binary   bool         `json:"binary"`
}

// FileInfo reports metadata for one path. Binary and oversize files degrade
// to metadata-only answers instead of failing.
func (e *Engine) FileInfo(path string) (*Info, error) {
	ref, err := e.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Path:    ref.RelPath,
		Name:    baseName(ref.RelPath),
		IsDir:   ref.IsDir,
		Size:    ref.Size,
		ModTime: ref.ModTime,
		Lines:   -1,
	}
	if ref.IsDir {
		return info, nil
	}

	info.Language = language.Classify(ref.RelPath, nil)
	content, err := e.reader.Read(ref.AbsPath, ref.RelPath, "")
	if err != nil {
		if fault.Is(err, fault.TooLarge) || fault.Is(err, fault.Decode) {
			return info, nil
		}
		return nil, err
	}
	if content.Binary {
		info.Binary = true
		return info, nil
	}
	info.Language = language.Classify(ref.RelPath, firstLine(content.Text))
	info.Lines = countLines(content.Text)
	return info, nil
}

// InvalidatePath evicts every cached result and indexed symbol derived from
// a root-relative path. The watcher calls this on change events.
func (e *Engine) InvalidatePath(relPath string) {
	e.cache.InvalidatePath(relPath)
	if err := e.symbols.RemoveFile(relPath); err != nil {
		e.logger.Warn("symbol eviction failed", "path", relPath, "error", err)
	}
}

// Status is a point-in-time snapshot for the status tool.
type Status struct {
	Root        string
	Uptime      time.Duration
	Cache       cache.Stats
	Symbols     uint64
	SymbolFiles int
}

// Stats returns engine counters.
func (e *Engine) Stats() Status {
	return Status{
		Root:        e.guard.Root(),
		Uptime:      time.Since(e.started),
		Cache:       e.cache.Stats(),
		Symbols:     e.symbols.Count(),
		SymbolFiles: e.symbols.FileCount(),
	}
}

func firstLine(text string) []byte {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return []byte(text[:i])
	}
	return []byte(text)
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func baseName(relPath string) string {
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}
