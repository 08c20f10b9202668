// Package extractor walks a parsed Python syntax tree and builds the API
// model for one source unit: which statements count as declarations, where
// their docstrings live, and how parameters, bases and imports are
// classified.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydex/internal/model"
	"pydex/internal/syntax"
)

// Options are the extraction feature flags. They are immutable per call, so
// parallel extractions with different options cannot interfere.
type Options struct {
	// TreatCommentBlocksAsDocstrings enables the comment-based docstring
	// heuristic for modules, classes, functions and assignments.
	TreatCommentBlocksAsDocstrings bool

	// ExpandNames requests the cross-module name-expansion pass. The pass
	// itself runs over a whole extracted batch (see internal/resolver);
	// the flag is carried here so one configuration value describes a run.
	ExpandNames bool
}

// ParseError reports a structurally malformed source unit. It aborts that
// unit only; sibling units in a batch are unaffected.
type ParseError struct {
	Message  string
	Line     int
	Filename string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Message)
}

// ModuleNameForFile derives a module name from a file path: the basename
// without extension, or the containing directory's name for __init__ files.
func ModuleNameForFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "__init__" {
		return filepath.Base(filepath.Dir(path))
	}
	return name
}

// ParseFile reads and extracts a single Python source file.
func ParseFile(ctx context.Context, path, moduleName string, opts Options) (*model.Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if moduleName == "" {
		moduleName = ModuleNameForFile(path)
	}
	return ParseSource(ctx, source, path, moduleName, opts)
}

// ParseSource extracts one module from Python source text. A structurally
// malformed source returns a *ParseError; declarations that are valid
// syntax but not representable (multi-target and unpacking assignments)
// are skipped silently.
func ParseSource(ctx context.Context, source []byte, filename, moduleName string, opts Options) (*model.Module, error) {
	tree, err := syntax.Parse(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	if info := tree.FirstError(); info != nil {
		return nil, &ParseError{Message: info.Message, Line: info.Line, Filename: filename}
	}
	if moduleName == "" {
		moduleName = ModuleNameForFile(filename)
	}

	p := &parser{tree: tree, opts: opts}
	module := p.parseModule(tree.Root(), moduleName)
	model.SyncHierarchy(module)
	return module, nil
}

type parser struct {
	tree *syntax.Tree
	opts Options
}

func (p *parser) text(n *sitter.Node) string {
	return p.tree.Text(n)
}

func (p *parser) location(n *sitter.Node) model.Location {
	return model.Location{
		Filename:  p.tree.Filename,
		Lineno:    syntax.Line(n),
		EndLineno: syntax.EndLine(n),
	}
}

// lineLocation is used for entities whose end line carries no information
// (decorations, docstring starts, simple statements).
func (p *parser) lineLocation(n *sitter.Node) model.Location {
	return model.Location{Filename: p.tree.Filename, Lineno: syntax.Line(n)}
}

func (p *parser) parseModule(root *sitter.Node, moduleName string) *model.Module {
	module := &model.Module{
		ObjectBase: model.ObjectBase{
			Name:      moduleName,
			Location:  p.location(root),
			Docstring: p.blockDocstring(root),
		},
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		for _, m := range p.parseDeclaration(root.NamedChild(i), nil, false) {
			if v, ok := m.(*model.Variable); ok && isConstantName(v.Name) {
				v.Semantics = append(v.Semantics, model.VariableConstant)
			}
			module.Members = append(module.Members, m)
		}
	}
	return module
}

// parseDeclaration classifies one statement node into zero or more model
// objects. Statements that declare nothing (bare expressions, control flow,
// comments) are invisible to the model.
func (p *parser) parseDeclaration(node *sitter.Node, decorations []model.Decoration, inClass bool) []model.ApiObject {
	switch node.Type() {
	case "expression_statement":
		expr := node.NamedChild(0)
		if expr == nil {
			return nil
		}
		switch expr.Type() {
		case "assignment":
			if v := p.parseAssignment(node, expr, false); v != nil {
				return []model.ApiObject{v}
			}
		case "augmented_assignment":
			if v := p.parseAssignment(node, expr, true); v != nil {
				return []model.ApiObject{v}
			}
		}
		return nil
	case "import_statement", "import_from_statement", "future_import_statement":
		return p.parseImport(node)
	case "function_definition":
		isAsync := node.Child(0) != nil && node.Child(0).Type() == "async"
		return []model.ApiObject{p.parseFunction(node, isAsync, decorations, inClass)}
	case "class_definition":
		return []model.ApiObject{p.parseClass(node, decorations)}
	case "decorated_definition":
		var decs []model.Decoration
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "decorator" {
				decs = append(decs, p.parseDecorator(child))
			}
		}
		if def := node.ChildByFieldName("definition"); def != nil {
			return p.parseDeclaration(def, decs, inClass)
		}
		return nil
	}
	return nil
}

// parseAssignment turns a simple single-target assignment into a Variable.
// Multi-target chains and tuple/list unpacking targets are not representable
// and yield nil: attributing a value or docstring to each unpacked name
// would be guessing.
func (p *parser) parseAssignment(stmt, assign *sitter.Node, augmented bool) *model.Variable {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	right := assign.ChildByFieldName("right")
	if right != nil && right.Type() == "assignment" {
		// Chained target list (a = b = ...).
		return nil
	}
	annotation := assign.ChildByFieldName("type")
	if right == nil && annotation == nil {
		return nil
	}

	variable := &model.Variable{
		ObjectBase: model.ObjectBase{
			Name:      p.text(left),
			Location:  p.lineLocation(stmt),
			Docstring: p.statementDocstring(stmt),
		},
	}
	if annotation != nil {
		variable.Datatype = strings.TrimSpace(p.text(annotation))
	}
	if right != nil {
		variable.Value = strings.TrimSpace(p.text(right))
	}
	if augmented {
		// Keep the operator as a modifier so the name-expansion pass can
		// fold export-list accumulation (__all__ += [...]).
		variable.Modifiers = []string{augmentedOperator(p, assign)}
	}
	return variable
}

func augmentedOperator(p *parser, assign *sitter.Node) string {
	if op := assign.ChildByFieldName("operator"); op != nil {
		return p.text(op)
	}
	return "+="
}

func (p *parser) parseDecorator(node *sitter.Node) model.Decoration {
	dec := model.Decoration{Location: p.lineLocation(node)}
	expr := node.NamedChild(0)
	if expr == nil {
		return dec
	}
	if expr.Type() == "call" {
		if fn := expr.ChildByFieldName("function"); fn != nil {
			dec.Name = p.text(fn)
		}
		dec.ArgList = []string{}
		if args := expr.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				arg := args.NamedChild(i)
				if arg.Type() == "comment" {
					continue
				}
				dec.ArgList = append(dec.ArgList, strings.TrimSpace(p.text(arg)))
			}
		}
	} else {
		dec.Name = p.text(expr)
	}
	return dec
}

// isConstantName reports whether a module-level binding follows the
// ALL_CAPS constant naming convention.
func isConstantName(name string) bool {
	hasUpper := false
	for _, ch := range name {
		if ch >= 'a' && ch <= 'z' {
			return false
		}
		if ch >= 'A' && ch <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}
