package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydex/internal/model"
)

func (p *parser) parseFunction(node *sitter.Node, isAsync bool, decorations []model.Decoration, inClass bool) *model.Function {
	fn := &model.Function{
		ObjectBase: model.ObjectBase{
			Location: p.location(node),
		},
		Args:        p.parseParameters(node.ChildByFieldName("parameters")),
		Decorations: decorations,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = p.text(name)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Docstring = p.blockDocstring(body)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = strings.TrimSpace(p.text(ret))
	}
	if isAsync {
		fn.Modifiers = []string{"async"}
	}
	fn.Semantics = functionSemantics(isAsync, inClass, decorations)
	return fn
}

// parseParameters classifies the declared parameter list left to right.
// The tree-sitter grammar yields the same node for the degenerate
// single-name list as for the general form, so no special case is needed
// beyond the separator handling.
func (p *parser) parseParameters(params *sitter.Node) []model.Argument {
	args := []model.Argument{}
	if params == nil {
		return args
	}
	kind := model.Positional
	for i := 0; i < int(params.NamedChildCount()); i++ {
		node := params.NamedChild(i)
		switch node.Type() {
		case "comment":
		case "positional_separator":
			// A bare "/" retroactively marks everything before it as
			// positional-only.
			for j := range args {
				if args[j].Type == model.Positional {
					args[j].Type = model.PositionalOnly
				}
			}
		case "keyword_separator":
			kind = model.KeywordOnly
		case "list_splat_pattern":
			args = append(args, model.Argument{
				Location: p.lineLocation(node),
				Name:     p.splatName(node),
				Type:     model.PositionalRemainder,
			})
			kind = model.KeywordOnly
		case "dictionary_splat_pattern":
			args = append(args, model.Argument{
				Location: p.lineLocation(node),
				Name:     p.splatName(node),
				Type:     model.KeywordRemainder,
			})
		case "identifier":
			args = append(args, model.Argument{
				Location: p.lineLocation(node),
				Name:     p.text(node),
				Type:     kind,
			})
		case "typed_parameter":
			arg := model.Argument{
				Location: p.lineLocation(node),
				Type:     kind,
			}
			if t := node.ChildByFieldName("type"); t != nil {
				arg.Datatype = strings.TrimSpace(p.text(t))
			}
			inner := node.NamedChild(0)
			switch {
			case inner == nil:
			case inner.Type() == "list_splat_pattern":
				arg.Name = p.splatName(inner)
				arg.Type = model.PositionalRemainder
				kind = model.KeywordOnly
			case inner.Type() == "dictionary_splat_pattern":
				arg.Name = p.splatName(inner)
				arg.Type = model.KeywordRemainder
			default:
				arg.Name = p.text(inner)
			}
			args = append(args, arg)
		case "default_parameter":
			arg := model.Argument{
				Location: p.lineLocation(node),
				Type:     kind,
			}
			if name := node.ChildByFieldName("name"); name != nil {
				arg.Name = p.text(name)
			}
			if value := node.ChildByFieldName("value"); value != nil {
				arg.DefaultValue = strings.TrimSpace(p.text(value))
			}
			args = append(args, arg)
		case "typed_default_parameter":
			arg := model.Argument{
				Location: p.lineLocation(node),
				Type:     kind,
			}
			if name := node.ChildByFieldName("name"); name != nil {
				arg.Name = p.text(name)
			}
			if t := node.ChildByFieldName("type"); t != nil {
				arg.Datatype = strings.TrimSpace(p.text(t))
			}
			if value := node.ChildByFieldName("value"); value != nil {
				arg.DefaultValue = strings.TrimSpace(p.text(value))
			}
			args = append(args, arg)
		}
	}
	return args
}

func (p *parser) splatName(splat *sitter.Node) string {
	if inner := splat.NamedChild(0); inner != nil {
		return p.text(inner)
	}
	return strings.TrimLeft(p.text(splat), "*")
}

func functionSemantics(isAsync, inClass bool, decorations []model.Decoration) []model.FunctionSemantic {
	var hints []model.FunctionSemantic
	var isStatic, isClassMethod bool
	for _, dec := range decorations {
		switch decorationTail(dec.Name) {
		case "staticmethod":
			isStatic = true
		case "classmethod":
			isClassMethod = true
		}
	}
	for _, dec := range decorations {
		if decorationTail(dec.Name) == "abstractmethod" || decorationTail(dec.Name) == "abstractproperty" {
			hints = append(hints, model.FunctionAbstract)
			break
		}
	}
	for _, dec := range decorations {
		if decorationTail(dec.Name) == "final" {
			hints = append(hints, model.FunctionFinal)
			break
		}
	}
	if isAsync {
		hints = append(hints, model.FunctionCoroutine)
	}
	switch {
	case isClassMethod:
		hints = append(hints, model.FunctionClassMethod)
	case isStatic:
		hints = append(hints, model.FunctionStaticMethod)
	case inClass:
		hints = append(hints, model.FunctionInstanceMethod)
	}
	for _, dec := range decorations {
		tail := decorationTail(dec.Name)
		switch {
		case tail == "property" || tail == "cached_property" || tail == "abstractproperty":
			hints = append(hints, model.FunctionPropertyGetter)
		case tail == "setter" && strings.Contains(dec.Name, "."):
			hints = append(hints, model.FunctionPropertySetter)
		case tail == "deleter" && strings.Contains(dec.Name, "."):
			hints = append(hints, model.FunctionPropertyDeleter)
		}
	}
	return hints
}

// decorationTail returns the last segment of a dotted decorator name, so
// that abc.abstractmethod and abstractmethod are treated alike.
func decorationTail(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
