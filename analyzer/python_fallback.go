//go:build !cgo

package analyzer

// Without cgo the tree-sitter binding is unavailable; Python uses the same
// indentation-tracking line strategy as the other languages.
func newPythonStrategy() strategy { return pythonLineStrategy }
