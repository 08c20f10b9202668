// Package resolver implements the optional cross-module name-expansion
// pass. It runs over a whole extracted batch, after per-unit extraction:
// a flat symbol table keyed by fully qualified name is built first, then
// bare identifiers inside annotations, return types, decorator names and
// base-class lists are rewritten to their defining declaration's qualified
// name. Unresolvable names keep their original spelling.
package resolver

import (
	"strings"

	"pydex/internal/model"
)

// Expand resolves names in place across the batch and folds partial
// export-list assignments into one effective list per module.
func Expand(modules []*model.Module) {
	scopes := make(map[*model.Module]map[string]string, len(modules))
	for _, module := range modules {
		FoldExports(module)
		scopes[module] = moduleScope(module)
	}
	for _, module := range modules {
		scope := scopes[module]
		expandObject(module, scope)
	}
}

// moduleScope maps each top-level binding of a module to its fully
// qualified name. Import targets win their local alias; declarations
// qualify as <module>.<name>.
func moduleScope(module *model.Module) map[string]string {
	scope := make(map[string]string)
	isPackage := strings.HasSuffix(module.Location.Filename, "__init__.py")
	for _, member := range module.Members {
		base := member.Base()
		if base.Name == "*" {
			continue
		}
		if ind, ok := member.(*model.Indirection); ok {
			scope[base.Name] = absoluteTarget(module.Name, ind.Target, isPackage)
			continue
		}
		scope[base.Name] = module.Name + "." + base.Name
	}
	return scope
}

// absoluteTarget resolves leading relative-import dots against the
// importing module's dotted name. One dot refers to the containing
// package; each further dot climbs one level. In a package __init__
// the module name already names the containing package, so the first
// dot climbs nothing.
func absoluteTarget(moduleName, target string, isPackage bool) string {
	dots := 0
	for dots < len(target) && target[dots] == '.' {
		dots++
	}
	if dots == 0 {
		return target
	}
	climb := dots
	if isPackage {
		climb--
	}
	parts := strings.Split(moduleName, ".")
	if climb > len(parts) {
		return target
	}
	base := parts[:len(parts)-climb]
	rest := target[dots:]
	if len(base) == 0 {
		return rest
	}
	if rest == "" {
		return strings.Join(base, ".")
	}
	return strings.Join(base, ".") + "." + rest
}

func expandObject(obj model.ApiObject, scope map[string]string) {
	switch v := obj.(type) {
	case *model.Variable:
		v.Datatype = expandExpr(v.Datatype, scope)
	case *model.Function:
		v.ReturnType = expandExpr(v.ReturnType, scope)
		for i := range v.Args {
			v.Args[i].Datatype = expandExpr(v.Args[i].Datatype, scope)
		}
		expandDecorations(v.Decorations, scope)
	case *model.Class:
		for i := range v.Bases {
			v.Bases[i] = expandExpr(v.Bases[i], scope)
		}
		v.Metaclass = expandExpr(v.Metaclass, scope)
		expandDecorations(v.Decorations, scope)
	}
	for _, member := range model.Members(obj) {
		expandObject(member, scope)
	}
}

func expandDecorations(decs []model.Decoration, scope map[string]string) {
	for i := range decs {
		decs[i].Name = expandExpr(decs[i].Name, scope)
	}
}

// expandExpr rewrites every bare identifier of an expression source text
// that resolves in scope. String literal contents and attribute accesses
// after a dot are left alone.
func expandExpr(expr string, scope map[string]string) string {
	if expr == "" {
		return expr
	}
	var sb strings.Builder
	prevDot := false
	for i := 0; i < len(expr); {
		ch := expr[i]
		switch {
		case ch == '\'' || ch == '"':
			end := skipString(expr, i)
			sb.WriteString(expr[i:end])
			i = end
			prevDot = false
		case isIdentStart(ch):
			end := i + 1
			for end < len(expr) && isIdentPart(expr[end]) {
				end++
			}
			name := expr[i:end]
			if !prevDot {
				if qualified, ok := scope[name]; ok {
					sb.WriteString(qualified)
				} else {
					sb.WriteString(name)
				}
			} else {
				sb.WriteString(name)
			}
			i = end
			prevDot = false
		default:
			sb.WriteByte(ch)
			prevDot = ch == '.'
			i++
		}
	}
	return sb.String()
}

func skipString(expr string, start int) int {
	quote := expr[start]
	i := start + 1
	for i < len(expr) {
		switch expr[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return i
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
