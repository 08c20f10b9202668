package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydex/internal/model"
)

// legacyMetaclassName is the fixed body-assignment name that designates an
// old-style metaclass declaration.
const legacyMetaclassName = "__metaclass__"

func (p *parser) parseClass(node *sitter.Node, decorations []model.Decoration) *model.Class {
	cls := &model.Class{
		ObjectBase: model.ObjectBase{
			Location: p.location(node),
		},
		Decorations: decorations,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		cls.Name = p.text(name)
	}
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			arg := superclasses.NamedChild(i)
			switch arg.Type() {
			case "comment":
			case "keyword_argument":
				// A metaclass= keyword takes precedence over the legacy
				// body assignment. Other class keywords are not modeled.
				name := arg.ChildByFieldName("name")
				value := arg.ChildByFieldName("value")
				if name != nil && value != nil && p.text(name) == "metaclass" {
					cls.Metaclass = strings.TrimSpace(p.text(value))
				}
			default:
				cls.Bases = append(cls.Bases, strings.TrimSpace(p.text(arg)))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.Docstring = p.blockDocstring(body)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		for _, member := range p.parseDeclaration(body.NamedChild(i), nil, true) {
			if v, ok := member.(*model.Variable); ok {
				if cls.Metaclass == "" && v.Name == legacyMetaclassName {
					cls.Metaclass = v.Value
					continue
				}
				v.Semantics = append(v.Semantics, bodyVariableSemantic(v))
			}
			cls.Members = append(cls.Members, member)
		}
	}
	cls.Semantics = classSemantics(cls.Bases, cls.Metaclass, decorations)
	return cls
}

// bodyVariableSemantic classifies a class-body variable: a bare annotation
// like "x: int" declares an instance attribute, while an assignment or a
// ClassVar annotation declares a class attribute.
func bodyVariableSemantic(v *model.Variable) model.VariableSemantic {
	if v.Value == "" && v.Datatype != "" && baseTail(v.Datatype) != "ClassVar" {
		return model.VariableInstance
	}
	return model.VariableClass
}

func classSemantics(bases []string, metaclass string, decorations []model.Decoration) []model.ClassSemantic {
	var hints []model.ClassSemantic
	add := func(h model.ClassSemantic) {
		for _, existing := range hints {
			if existing == h {
				return
			}
		}
		hints = append(hints, h)
	}
	for _, base := range bases {
		switch baseTail(base) {
		case "Protocol":
			add(model.ClassInterface)
		case "ABC":
			add(model.ClassAbstract)
		case "Enum", "IntEnum", "StrEnum", "Flag", "IntFlag":
			add(model.ClassEnum)
		}
	}
	switch baseTail(metaclass) {
	case "ABCMeta":
		add(model.ClassAbstract)
	case "EnumMeta", "EnumType":
		add(model.ClassEnum)
	}
	for _, dec := range decorations {
		if decorationTail(dec.Name) == "final" {
			add(model.ClassFinal)
		}
	}
	return hints
}

// baseTail reduces a base-class expression to its decisive name: subscripts
// are dropped and only the last dotted segment is kept, so typing.Protocol
// and Protocol[T] are treated alike.
func baseTail(base string) string {
	if i := strings.IndexAny(base, "[("); i >= 0 {
		base = base[:i]
	}
	return decorationTail(strings.TrimSpace(base))
}
