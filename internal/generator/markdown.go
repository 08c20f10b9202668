// Package generator renders extracted API models as Markdown.
package generator

import (
	"fmt"
	"strings"

	"pydex/internal/model"
)

// MarkdownGenerator produces documentation in Markdown format.
type MarkdownGenerator struct {
	// IncludeSource prefixes each module section with its file path.
	IncludeSource bool
}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{IncludeSource: true}
}

// RenderModule renders one module and all of its members.
func (g *MarkdownGenerator) RenderModule(mod *model.Module) string {
	var sb strings.Builder
	sb.WriteString("# " + mod.Name + "\n\n")
	if g.IncludeSource && mod.Location.Filename != "" {
		fmt.Fprintf(&sb, "*Source: `%s`*\n\n", mod.Location.Filename)
	}
	if mod.Docstring != nil {
		sb.WriteString(mod.Docstring.Content + "\n\n")
	}
	for _, member := range mod.Members {
		g.renderObject(&sb, member, 2)
	}
	return sb.String()
}

func (g *MarkdownGenerator) renderObject(sb *strings.Builder, obj model.ApiObject, level int) {
	heading := strings.Repeat("#", level)
	base := obj.Base()
	switch o := obj.(type) {
	case *model.Variable:
		fmt.Fprintf(sb, "%s %s\n\n", heading, base.Name)
		sb.WriteString("```python\n" + variableSignature(o) + "\n```\n\n")
	case *model.Function:
		fmt.Fprintf(sb, "%s %s\n\n", heading, base.Name)
		sb.WriteString("```python\n" + functionSignature(o) + "\n```\n\n")
	case *model.Class:
		fmt.Fprintf(sb, "%s %s\n\n", heading, base.Name)
		sb.WriteString("```python\n" + classSignature(o) + "\n```\n\n")
	case *model.Indirection:
		// Re-exports carry no documentation of their own.
		return
	}
	if base.Docstring != nil {
		sb.WriteString(base.Docstring.Content + "\n\n")
	}
	for _, member := range model.Members(obj) {
		g.renderObject(sb, member, level+1)
	}
}

func variableSignature(v *model.Variable) string {
	var sb strings.Builder
	sb.WriteString(v.Name)
	if v.Datatype != "" {
		sb.WriteString(": " + v.Datatype)
	}
	if v.Value != "" {
		sb.WriteString(" = " + v.Value)
	}
	return sb.String()
}

func functionSignature(f *model.Function) string {
	var sb strings.Builder
	for _, dec := range f.Decorations {
		sb.WriteString("@" + dec.Name)
		if dec.ArgList != nil {
			sb.WriteString("(" + strings.Join(dec.ArgList, ", ") + ")")
		}
		sb.WriteString("\n")
	}
	for _, mod := range f.Modifiers {
		sb.WriteString(mod + " ")
	}
	sb.WriteString("def " + f.Name + "(")
	sb.WriteString(formatArguments(f.Args))
	sb.WriteString(")")
	if f.ReturnType != "" {
		sb.WriteString(" -> " + f.ReturnType)
	}
	return sb.String()
}

// formatArguments reconstructs the declaration form of an argument list,
// inserting the "/" and "*" separators implied by the argument kinds.
func formatArguments(args []model.Argument) string {
	parts := make([]string, 0, len(args)+2)
	sawPositionalOnly := false
	sawKeywordSeparator := false
	for _, arg := range args {
		switch arg.Type {
		case model.PositionalOnly:
			sawPositionalOnly = true
		case model.Positional:
			if sawPositionalOnly {
				parts = append(parts, "/")
				sawPositionalOnly = false
			}
		case model.PositionalRemainder:
			sawKeywordSeparator = true
		case model.KeywordOnly:
			if sawPositionalOnly {
				parts = append(parts, "/")
				sawPositionalOnly = false
			}
			if !sawKeywordSeparator {
				parts = append(parts, "*")
				sawKeywordSeparator = true
			}
		}
		parts = append(parts, formatArgument(arg))
	}
	if sawPositionalOnly {
		parts = append(parts, "/")
	}
	return strings.Join(parts, ", ")
}

func formatArgument(arg model.Argument) string {
	var sb strings.Builder
	switch arg.Type {
	case model.PositionalRemainder:
		sb.WriteString("*")
	case model.KeywordRemainder:
		sb.WriteString("**")
	}
	sb.WriteString(arg.Name)
	if arg.Datatype != "" {
		sb.WriteString(": " + arg.Datatype)
	}
	if arg.DefaultValue != "" {
		if arg.Datatype != "" {
			sb.WriteString(" = " + arg.DefaultValue)
		} else {
			sb.WriteString("=" + arg.DefaultValue)
		}
	}
	return sb.String()
}

func classSignature(c *model.Class) string {
	var sb strings.Builder
	for _, dec := range c.Decorations {
		sb.WriteString("@" + dec.Name)
		if dec.ArgList != nil {
			sb.WriteString("(" + strings.Join(dec.ArgList, ", ") + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("class " + c.Name)
	parents := append([]string(nil), c.Bases...)
	if c.Metaclass != "" {
		parents = append(parents, "metaclass="+c.Metaclass)
	}
	if len(parents) > 0 {
		sb.WriteString("(" + strings.Join(parents, ", ") + ")")
	}
	return sb.String()
}
