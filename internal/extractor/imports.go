package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydex/internal/model"
)

// parseImport yields one Indirection per imported name.
func (p *parser) parseImport(node *sitter.Node) []model.ApiObject {
	switch node.Type() {
	case "import_statement":
		return p.parsePlainImport(node)
	case "import_from_statement":
		return p.parseFromImport(node, "")
	case "future_import_statement":
		return p.parseFromImport(node, "__future__")
	}
	return nil
}

// parsePlainImport handles `import a.b.c [as x]`: the local binding is the
// first path segment, or the alias when one is given; the target is always
// the full dotted path.
func (p *parser) parsePlainImport(node *sitter.Node) []model.ApiObject {
	var out []model.ApiObject
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			target := p.text(child)
			name := target
			if dot := strings.Index(name, "."); dot >= 0 {
				name = name[:dot]
			}
			out = append(out, p.indirection(node, name, target))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			out = append(out, p.indirection(node, p.text(aliasNode), p.text(nameNode)))
		}
	}
	return out
}

// parseFromImport handles `from <module> import name [as alias], ...` and
// star imports. Leading relative-import dots in <module> are preserved in
// the target.
func (p *parser) parseFromImport(node *sitter.Node, module string) []model.ApiObject {
	if module == "" {
		if mod := node.ChildByFieldName("module_name"); mod != nil {
			module = p.text(mod)
		}
	}
	var out []model.ApiObject
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "wildcard_import":
			out = append(out, p.indirection(node, "*", joinImport(module, "*")))
		case "dotted_name":
			if mod := node.ChildByFieldName("module_name"); mod != nil && child.Equal(mod) {
				continue
			}
			name := p.text(child)
			out = append(out, p.indirection(node, name, joinImport(module, name)))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			out = append(out, p.indirection(node, p.text(aliasNode), joinImport(module, p.text(nameNode))))
		}
	}
	return out
}

func (p *parser) indirection(stmt *sitter.Node, name, target string) *model.Indirection {
	return &model.Indirection{
		ObjectBase: model.ObjectBase{
			Name:     name,
			Location: p.lineLocation(stmt),
		},
		Target: target,
	}
}

// joinImport builds an indirection target from a module path and a member
// name. A bare relative prefix ("." or "..") already ends in a dot, so no
// separator is added.
func joinImport(module, name string) string {
	if strings.HasSuffix(module, ".") {
		return module + name
	}
	return module + "." + name
}
