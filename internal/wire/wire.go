// Package wire implements the tagged-union JSON encoding of the API model.
// Every object is a map carrying a "type" discriminator ("data",
// "indirection", "function", "class", "module") plus its fields. Fields
// holding their type's zero value are omitted on encode and re-supplied on
// decode.
package wire

import (
	"encoding/json"
	"fmt"

	"pydex/internal/model"
)

// SerializationError reports an unknown discriminator or a malformed
// document shape on decode.
type SerializationError struct {
	Message string
}

func (e *SerializationError) Error() string {
	return "serialization error: " + e.Message
}

func serializationErrorf(format string, args ...interface{}) error {
	return &SerializationError{Message: fmt.Sprintf(format, args...)}
}

type wireLocation struct {
	Filename  string `json:"filename"`
	Lineno    int    `json:"lineno"`
	EndLineno int    `json:"endlineno,omitempty"`
}

type wireDocstring struct {
	Location *wireLocation `json:"location,omitempty"`
	Content  string        `json:"content"`
}

// UnmarshalJSON accepts both the current object form and the historical
// plain-string form of a docstring.
func (d *wireDocstring) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &d.Content)
	}
	type plain wireDocstring
	return json.Unmarshal(data, (*plain)(d))
}

type wireDecoration struct {
	Location *wireLocation `json:"location,omitempty"`
	Name     string        `json:"name"`
	Args     string        `json:"args,omitempty"`

	// ArgList is a pointer so an empty call list ("@foo()") survives the
	// sparse encoding: nil (no call) is omitted, an empty list is written.
	ArgList *[]string `json:"arglist,omitempty"`

	// Historical spelling of ArgList, accepted on decode only.
	LegacyArgList []string `json:"arg_list,omitempty"`
}

type wireArgument struct {
	Location     *wireLocation    `json:"location,omitempty"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Decorations  []wireDecoration `json:"decorations,omitempty"`
	Datatype     string           `json:"datatype,omitempty"`
	DefaultValue string           `json:"default_value,omitempty"`
}

// wireObject is the union of all variant shapes. Encoding relies on the
// omitempty sparse convention, so unused variant fields never appear.
type wireObject struct {
	Type      string         `json:"type,omitempty"`
	Name      string         `json:"name"`
	Location  *wireLocation  `json:"location,omitempty"`
	Docstring *wireDocstring `json:"docstring,omitempty"`

	// Variable.
	Datatype string `json:"datatype,omitempty"`
	Value    string `json:"value,omitempty"`

	// Indirection.
	Target string `json:"target,omitempty"`

	// Function.
	Args       []wireArgument `json:"args,omitempty"`
	ReturnType string         `json:"return_type,omitempty"`

	// Class.
	Metaclass string   `json:"metaclass,omitempty"`
	Bases     []string `json:"bases,omitempty"`

	// Shared by several variants.
	Modifiers   []string         `json:"modifiers,omitempty"`
	Decorations []wireDecoration `json:"decorations,omitempty"`
	Semantics   []string         `json:"semantic_hints,omitempty"`
	Members     []*wireObject    `json:"members,omitempty"`
}

// argumentTypeAliases maps both the canonical spellings and the fixed list
// of historical CamelCase spellings to the canonical argument type.
var argumentTypeAliases = map[string]model.ArgumentType{
	"POSITIONAL_ONLY":      model.PositionalOnly,
	"POSITIONAL":           model.Positional,
	"POSITIONAL_REMAINDER": model.PositionalRemainder,
	"KEYWORD_ONLY":         model.KeywordOnly,
	"KEYWORD_REMAINDER":    model.KeywordRemainder,
	"PositionalOnly":       model.PositionalOnly,
	"Positional":           model.Positional,
	"PositionalRemainder":  model.PositionalRemainder,
	"KeywordOnly":          model.KeywordOnly,
	"KeywordRemainder":     model.KeywordRemainder,
}

// Dump encodes a module tree as a single JSON document.
func Dump(module *model.Module) ([]byte, error) {
	return json.Marshal(encodeObject(module))
}

// Load decodes a single JSON document into a module tree and synchronizes
// its hierarchy. A document whose root carries a non-"module" discriminator
// is rejected; a missing root discriminator is accepted for older documents.
func Load(data []byte) (*model.Module, error) {
	var doc *wireObject
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, serializationErrorf("malformed document: %v", err)
	}
	if doc == nil {
		return nil, serializationErrorf("document is null")
	}
	if doc.Type != "" && doc.Type != "module" {
		return nil, serializationErrorf("document root must be a module, got %q", doc.Type)
	}
	doc.Type = "module"
	obj, err := decodeObject(doc)
	if err != nil {
		return nil, err
	}
	module := obj.(*model.Module)
	model.SyncHierarchy(module)
	return module, nil
}

func encodeLocation(loc model.Location) *wireLocation {
	if loc == (model.Location{}) {
		return nil
	}
	return &wireLocation{Filename: loc.Filename, Lineno: loc.Lineno, EndLineno: loc.EndLineno}
}

func decodeLocation(loc *wireLocation) model.Location {
	if loc == nil {
		return model.Location{}
	}
	return model.Location{Filename: loc.Filename, Lineno: loc.Lineno, EndLineno: loc.EndLineno}
}

func encodeDocstring(d *model.Docstring) *wireDocstring {
	if d == nil {
		return nil
	}
	return &wireDocstring{Location: encodeLocation(d.Location), Content: d.Content}
}

func decodeDocstring(d *wireDocstring) *model.Docstring {
	if d == nil {
		return nil
	}
	return &model.Docstring{Location: decodeLocation(d.Location), Content: d.Content}
}

func encodeDecorations(decs []model.Decoration) []wireDecoration {
	if decs == nil {
		return nil
	}
	out := make([]wireDecoration, len(decs))
	for i, d := range decs {
		out[i] = wireDecoration{
			Location: encodeLocation(d.Location),
			Name:     d.Name,
			Args:     d.Args,
		}
		if d.ArgList != nil {
			arglist := d.ArgList
			out[i].ArgList = &arglist
		}
	}
	return out
}

func decodeDecorations(decs []wireDecoration) []model.Decoration {
	if decs == nil {
		return nil
	}
	out := make([]model.Decoration, len(decs))
	for i, d := range decs {
		arglist := d.LegacyArgList
		if d.ArgList != nil {
			arglist = *d.ArgList
		}
		out[i] = model.Decoration{
			Location: decodeLocation(d.Location),
			Name:     d.Name,
			Args:     d.Args,
			ArgList:  arglist,
		}
	}
	return out
}

func encodeArguments(args []model.Argument) []wireArgument {
	if args == nil {
		return nil
	}
	out := make([]wireArgument, len(args))
	for i, a := range args {
		out[i] = wireArgument{
			Location:     encodeLocation(a.Location),
			Name:         a.Name,
			Type:         string(a.Type),
			Decorations:  encodeDecorations(a.Decorations),
			Datatype:     a.Datatype,
			DefaultValue: a.DefaultValue,
		}
	}
	return out
}

func decodeArguments(args []wireArgument) ([]model.Argument, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]model.Argument, len(args))
	for i, a := range args {
		argType, ok := argumentTypeAliases[a.Type]
		if !ok {
			return nil, serializationErrorf("unknown argument type %q", a.Type)
		}
		out[i] = model.Argument{
			Location:     decodeLocation(a.Location),
			Name:         a.Name,
			Type:         argType,
			Decorations:  decodeDecorations(a.Decorations),
			Datatype:     a.Datatype,
			DefaultValue: a.DefaultValue,
		}
	}
	return out, nil
}

func encodeObject(obj model.ApiObject) *wireObject {
	base := obj.Base()
	doc := &wireObject{
		Type:      model.Kind(obj),
		Name:      base.Name,
		Location:  encodeLocation(base.Location),
		Docstring: encodeDocstring(base.Docstring),
	}
	switch v := obj.(type) {
	case *model.Variable:
		doc.Datatype = v.Datatype
		doc.Value = v.Value
		doc.Modifiers = v.Modifiers
		doc.Semantics = variableSemanticsToStrings(v.Semantics)
	case *model.Indirection:
		doc.Target = v.Target
	case *model.Function:
		doc.Modifiers = v.Modifiers
		doc.Args = encodeArguments(v.Args)
		doc.ReturnType = v.ReturnType
		doc.Decorations = encodeDecorations(v.Decorations)
		doc.Semantics = functionSemanticsToStrings(v.Semantics)
	case *model.Class:
		doc.Metaclass = v.Metaclass
		doc.Bases = v.Bases
		doc.Decorations = encodeDecorations(v.Decorations)
		doc.Modifiers = v.Modifiers
		doc.Semantics = classSemanticsToStrings(v.Semantics)
		doc.Members = encodeMembers(v.Members)
	case *model.Module:
		doc.Members = encodeMembers(v.Members)
	}
	return doc
}

func encodeMembers(members []model.ApiObject) []*wireObject {
	if members == nil {
		return nil
	}
	out := make([]*wireObject, len(members))
	for i, m := range members {
		out[i] = encodeObject(m)
	}
	return out
}

func decodeObject(doc *wireObject) (model.ApiObject, error) {
	base := model.ObjectBase{
		Location:  decodeLocation(doc.Location),
		Name:      doc.Name,
		Docstring: decodeDocstring(doc.Docstring),
	}
	switch doc.Type {
	case "data":
		return &model.Variable{
			ObjectBase: base,
			Datatype:   doc.Datatype,
			Value:      doc.Value,
			Modifiers:  doc.Modifiers,
			Semantics:  variableSemanticsFromStrings(doc.Semantics),
		}, nil
	case "indirection":
		return &model.Indirection{ObjectBase: base, Target: doc.Target}, nil
	case "function":
		args, err := decodeArguments(doc.Args)
		if err != nil {
			return nil, err
		}
		if args == nil {
			// Extraction always yields a non-nil argument list; restore that
			// shape so load(dump(M)) matches M.
			args = []model.Argument{}
		}
		return &model.Function{
			ObjectBase:  base,
			Modifiers:   doc.Modifiers,
			Args:        args,
			ReturnType:  doc.ReturnType,
			Decorations: decodeDecorations(doc.Decorations),
			Semantics:   functionSemanticsFromStrings(doc.Semantics),
		}, nil
	case "class":
		members, err := decodeMembers(doc.Members)
		if err != nil {
			return nil, err
		}
		return &model.Class{
			ObjectBase:  base,
			Metaclass:   doc.Metaclass,
			Bases:       doc.Bases,
			Decorations: decodeDecorations(doc.Decorations),
			Members:     members,
			Modifiers:   doc.Modifiers,
			Semantics:   classSemanticsFromStrings(doc.Semantics),
		}, nil
	case "module":
		members, err := decodeMembers(doc.Members)
		if err != nil {
			return nil, err
		}
		return &model.Module{ObjectBase: base, Members: members}, nil
	}
	return nil, serializationErrorf("unknown object type %q", doc.Type)
}

func decodeMembers(members []*wireObject) ([]model.ApiObject, error) {
	if members == nil {
		return nil, nil
	}
	out := make([]model.ApiObject, len(members))
	for i, m := range members {
		if m == nil {
			return nil, serializationErrorf("null member at index %d", i)
		}
		obj, err := decodeObject(m)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

func variableSemanticsToStrings(hints []model.VariableSemantic) []string {
	if hints == nil {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = string(h)
	}
	return out
}

func variableSemanticsFromStrings(hints []string) []model.VariableSemantic {
	if hints == nil {
		return nil
	}
	out := make([]model.VariableSemantic, len(hints))
	for i, h := range hints {
		out[i] = model.VariableSemantic(h)
	}
	return out
}

func functionSemanticsToStrings(hints []model.FunctionSemantic) []string {
	if hints == nil {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = string(h)
	}
	return out
}

func functionSemanticsFromStrings(hints []string) []model.FunctionSemantic {
	if hints == nil {
		return nil
	}
	out := make([]model.FunctionSemantic, len(hints))
	for i, h := range hints {
		out[i] = model.FunctionSemantic(h)
	}
	return out
}

func classSemanticsToStrings(hints []model.ClassSemantic) []string {
	if hints == nil {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = string(h)
	}
	return out
}

func classSemanticsFromStrings(hints []string) []model.ClassSemantic {
	if hints == nil {
		return nil
	}
	out := make([]model.ClassSemantic, len(hints))
	for i, h := range hints {
		out[i] = model.ClassSemantic(h)
	}
	return out
}
