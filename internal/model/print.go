package model

import (
	"fmt"
	"strings"
)

// FormatTree renders a simplified, indented representation of the tree
// rooted at obj, one object per line.
func FormatTree(obj ApiObject) string {
	var sb strings.Builder
	formatTree(&sb, obj, 0)
	return sb.String()
}

func formatTree(sb *strings.Builder, obj ApiObject, depth int) {
	fmt.Fprintf(sb, "%s%s %s\n", strings.Repeat("| ", depth), Kind(obj), obj.Base().Name)
	for _, member := range Members(obj) {
		formatTree(sb, member, depth+1)
	}
}

// Kind returns the variant name of obj as used in the wire format.
func Kind(obj ApiObject) string {
	switch obj.(type) {
	case *Variable:
		return "data"
	case *Indirection:
		return "indirection"
	case *Function:
		return "function"
	case *Class:
		return "class"
	case *Module:
		return "module"
	}
	return "unknown"
}
