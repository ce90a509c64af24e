//go:build cgo

package analyzer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// pythonSitterStrategy walks a real Python syntax tree, giving exact
// nesting and line ranges. Parse failures fall back to the line heuristic
// so analysis stays best-effort.
type pythonSitterStrategy struct{}

func newPythonStrategy() strategy { return pythonSitterStrategy{} }

func (pythonSitterStrategy) extract(content string, includeDocs bool) []Symbol {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil || tree == nil {
		return pythonLineStrategy.extract(content, includeDocs)
	}
	defer tree.Close()

	src := []byte(content)
	var out []Symbol
	var walk func(node *sitter.Node, parent string)
	walk = func(node *sitter.Node, parent string) {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "import_statement":
				for _, name := range importedNames(child, src) {
					out = append(out, Symbol{
						Kind:      KindImport,
						Name:      name,
						StartLine: line(child.StartPoint()),
						EndLine:   line(child.StartPoint()),
						Parent:    parent,
					})
				}
			case "import_from_statement":
				module := ""
				if m := child.ChildByFieldName("module_name"); m != nil {
					module = m.Content(src)
				}
				for _, name := range fromImportedNames(child, src) {
					full := name
					if module != "" {
						full = module + "." + name
					}
					out = append(out, Symbol{
						Kind:      KindImport,
						Name:      full,
						StartLine: line(child.StartPoint()),
						EndLine:   line(child.StartPoint()),
						Parent:    parent,
					})
				}
			case "class_definition":
				name := fieldText(child, "name", src)
				sym := Symbol{
					Kind:      KindClass,
					Name:      name,
					StartLine: line(child.StartPoint()),
					EndLine:   line(child.EndPoint()),
					Parent:    parent,
				}
				if includeDocs {
					sym.Doc = docstring(child, src)
				}
				out = append(out, sym)
				if body := child.ChildByFieldName("body"); body != nil {
					walk(body, name)
				}
			case "function_definition":
				name := fieldText(child, "name", src)
				sym := Symbol{
					Kind:      KindFunction,
					Name:      name,
					StartLine: line(child.StartPoint()),
					EndLine:   line(child.EndPoint()),
					Parent:    parent,
				}
				if includeDocs {
					sym.Doc = docstring(child, src)
				}
				out = append(out, sym)
				if body := child.ChildByFieldName("body"); body != nil {
					walk(body, name)
				}
			case "decorated_definition":
				walk(child, parent)
			default:
				// Descend through wrappers (if blocks, try blocks) so
				// conditionally defined symbols are still found.
				if child.NamedChildCount() > 0 {
					walk(child, parent)
				}
			}
		}
	}
	walk(tree.RootNode(), "")
	return out
}

func line(p sitter.Point) int { return int(p.Row) + 1 }

func fieldText(node *sitter.Node, field string, src []byte) string {
	if f := node.ChildByFieldName(field); f != nil {
		return f.Content(src)
	}
	return ""
}

// importedNames extracts module names from "import a, b as c".
func importedNames(node *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			names = append(names, child.Content(src))
		case "aliased_import":
			if n := child.ChildByFieldName("name"); n != nil {
				names = append(names, n.Content(src))
			}
		}
	}
	return names
}

// fromImportedNames extracts the imported names from
// "from m import a, b as c", skipping the module itself.
func fromImportedNames(node *sitter.Node, src []byte) []string {
	module := node.ChildByFieldName("module_name")
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			names = append(names, child.Content(src))
		case "aliased_import":
			if n := child.ChildByFieldName("name"); n != nil {
				names = append(names, n.Content(src))
			}
		case "wildcard_import":
			names = append(names, "*")
		}
	}
	return names
}

// docstring returns the leading string literal of a definition's body,
// stripped of quotes.
func docstring(def *sitter.Node, src []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	text := str.Content(src)
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			return strings.TrimSpace(text[len(quote) : len(text)-len(quote)])
		}
	}
	return strings.TrimSpace(text)
}
