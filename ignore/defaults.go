package ignore

// Built-in exclusions applied before .gitignore and CLI patterns. These
// cover trees and file classes that are never worth reading, searching or
// analyzing.

var skipDirs = map[string]struct{}{
	".git":          {},
	".svn":          {},
	".hg":           {},
	"node_modules":  {},
	"vendor":        {},
	"__pycache__":   {},
	".venv":         {},
	"venv":          {},
	".idea":         {},
	".vscode":       {},
	"dist":          {},
	"build":         {},
	"target":        {},
	".cache":        {},
	".next":         {},
	"coverage":      {},
	".pytest_cache": {},
	".mypy_cache":   {},
}

var skipExts = map[string]struct{}{
	".exe":    {},
	".dll":    {},
	".so":     {},
	".dylib":  {},
	".o":      {},
	".a":      {},
	".class":  {},
	".jar":    {},
	".pyc":    {},
	".zip":    {},
	".tar":    {},
	".gz":     {},
	".tgz":    {},
	".7z":     {},
	".png":    {},
	".jpg":    {},
	".jpeg":   {},
	".gif":    {},
	".ico":    {},
	".webp":   {},
	".woff":   {},
	".woff2":  {},
	".ttf":    {},
	".eot":    {},
	".mp3":    {},
	".mp4":    {},
	".pdf":    {},
	".sqlite": {},
	".db":     {},
}

var skipFiles = map[string]struct{}{
	".DS_Store":         {},
	"Thumbs.db":         {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"poetry.lock":       {},
	"Cargo.lock":        {},
	"go.sum":            {},
}
