package model

// Location points at a region of a source file.
type Location struct {
	Filename  string
	Lineno    int // 1-based
	EndLineno int // 0 when unknown
}

// Docstring is the documentation text attached to an ApiObject, together
// with the location of its first content line.
type Docstring struct {
	Location Location
	Content  string
}

// Decoration describes a single decorator applied to a function or class.
// Name is the dotted call target as written in source. For decorators
// invoked with arguments, ArgList holds one source-text fragment per call
// argument (keyword arguments rendered as "key=value"). Args is the legacy
// single-string rendering of the call suffix and is kept for older
// documents; new extractions populate ArgList.
type Decoration struct {
	Location Location
	Name     string
	Args     string
	ArgList  []string
}

// ArgumentType classifies how a function argument binds at the call site.
type ArgumentType string

const (
	PositionalOnly      ArgumentType = "POSITIONAL_ONLY"
	Positional          ArgumentType = "POSITIONAL"
	PositionalRemainder ArgumentType = "POSITIONAL_REMAINDER"
	KeywordOnly         ArgumentType = "KEYWORD_ONLY"
	KeywordRemainder    ArgumentType = "KEYWORD_REMAINDER"
)

// Argument is a single declared parameter of a Function.
type Argument struct {
	Location     Location
	Name         string
	Type         ArgumentType
	Decorations  []Decoration
	Datatype     string // annotation source text, "" when absent
	DefaultValue string // default expression source text, "" when absent
}

// FunctionSemantic is a language-level hint about how a function behaves.
type FunctionSemantic string

const (
	FunctionAbstract        FunctionSemantic = "ABSTRACT"
	FunctionFinal           FunctionSemantic = "FINAL"
	FunctionCoroutine       FunctionSemantic = "COROUTINE"
	FunctionNoReturn        FunctionSemantic = "NO_RETURN"
	FunctionInstanceMethod  FunctionSemantic = "INSTANCE_METHOD"
	FunctionClassMethod     FunctionSemantic = "CLASS_METHOD"
	FunctionStaticMethod    FunctionSemantic = "STATIC_METHOD"
	FunctionPropertyGetter  FunctionSemantic = "PROPERTY_GETTER"
	FunctionPropertySetter  FunctionSemantic = "PROPERTY_SETTER"
	FunctionPropertyDeleter FunctionSemantic = "PROPERTY_DELETER"
)

// ClassSemantic is a language-level hint about the nature of a class.
type ClassSemantic string

const (
	ClassInterface ClassSemantic = "INTERFACE"
	ClassAbstract  ClassSemantic = "ABSTRACT"
	ClassFinal     ClassSemantic = "FINAL"
	ClassEnum      ClassSemantic = "ENUM"
)

// VariableSemantic is a language-level hint about the nature of a variable.
type VariableSemantic string

const (
	VariableInstance VariableSemantic = "INSTANCE_VARIABLE"
	VariableClass    VariableSemantic = "CLASS_VARIABLE"
	VariableConstant VariableSemantic = "CONSTANT"
)

// ApiObject is any named, located, documentable entity in the model. The
// closed set of implementations is Variable, Indirection, Function, Class
// and Module.
type ApiObject interface {
	// Base exposes the fields shared by every entity.
	Base() *ObjectBase

	// members returns the owning member list of the object, or nil for
	// leaf objects. Keeping this unexported seals the union.
	members() *[]ApiObject
}

// ObjectBase carries the fields shared by every ApiObject. The parent
// back-reference is observational: ownership runs exclusively top-down
// through member lists, and the reference is rebuilt by SyncHierarchy
// rather than persisted.
type ObjectBase struct {
	Location  Location
	Name      string
	Docstring *Docstring

	parent ApiObject
}

func (b *ObjectBase) Base() *ObjectBase { return b }

// Parent returns the enclosing object, or nil at the root. The value is
// only meaningful after SyncHierarchy has run on the containing tree.
func (b *ObjectBase) Parent() ApiObject { return b.parent }

// Variable is a documented assignment (module variable, class variable or
// constant).
type Variable struct {
	ObjectBase
	Datatype  string // annotation source text, "" when absent
	Value     string // assigned expression source text, "" when absent
	Modifiers []string
	Semantics []VariableSemantic
}

func (*Variable) members() *[]ApiObject { return nil }

// Indirection records an import or re-export binding: a local name that
// refers to a fully-or-relatively qualified name elsewhere.
type Indirection struct {
	ObjectBase
	Target string
}

func (*Indirection) members() *[]ApiObject { return nil }

// Function is a function or method declaration.
type Function struct {
	ObjectBase
	Modifiers   []string // e.g. "async"
	Args        []Argument
	ReturnType  string // annotation source text, "" when absent
	Decorations []Decoration
	Semantics   []FunctionSemantic
}

func (*Function) members() *[]ApiObject { return nil }

// Class is a class declaration. Members hold Variable, Function, Class and
// Indirection objects in source declaration order.
type Class struct {
	ObjectBase
	Metaclass   string
	Bases       []string
	Decorations []Decoration
	Members     []ApiObject
	Modifiers   []string
	Semantics   []ClassSemantic
}

func (c *Class) members() *[]ApiObject { return &c.Members }

// Module is one source unit. Members hold Variable, Function, Class,
// Module and Indirection objects in source declaration order.
type Module struct {
	ObjectBase
	Members []ApiObject
}

func (m *Module) members() *[]ApiObject { return &m.Members }

// Members returns the member list of obj, or nil for objects that cannot
// have members.
func Members(obj ApiObject) []ApiObject {
	if list := obj.members(); list != nil {
		return *list
	}
	return nil
}

// HasMembers reports whether obj is one of the container variants
// (Class or Module).
func HasMembers(obj ApiObject) bool {
	return obj.members() != nil
}
