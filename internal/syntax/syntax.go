// Package syntax adapts the tree-sitter Python grammar to the positioned,
// comment-aware syntax tree the extractor consumes. Comment nodes are
// tree-sitter "extras" and appear as ordinary named siblings, which is how
// leading trivia is recovered.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Tree is one parsed source unit.
type Tree struct {
	Filename string
	Source   []byte

	tree *sitter.Tree
}

// ErrorInfo locates the first structural error in a malformed tree.
type ErrorInfo struct {
	Line    int
	Message string
}

// Parse parses Python source into a positioned syntax tree. The returned
// tree may still contain error nodes; use FirstError to check.
func Parse(ctx context.Context, source []byte, filename string) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return &Tree{Filename: filename, Source: source, tree: tree}, nil
}

// Root returns the module node of the tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *sitter.Node) string {
	return n.Content(t.Source)
}

// FirstError returns the position of the first ERROR or missing node, or
// nil when the tree is structurally sound.
func (t *Tree) FirstError() *ErrorInfo {
	root := t.Root()
	if !root.HasError() {
		return nil
	}
	if info := findError(root); info != nil {
		return info
	}
	return &ErrorInfo{Line: Line(root), Message: "syntax error"}
}

func findError(n *sitter.Node) *ErrorInfo {
	if n.Type() == "ERROR" {
		return &ErrorInfo{Line: Line(n), Message: "syntax error"}
	}
	if n.IsMissing() {
		return &ErrorInfo{Line: Line(n), Message: fmt.Sprintf("missing %s", n.Type())}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if info := findError(n.Child(i)); info != nil {
			return info
		}
	}
	return nil
}

// Line returns the 1-based start line of n.
func Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// EndLine returns the 1-based end line of n.
func EndLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

// Comment is a single-line comment with its position.
type Comment struct {
	Line int
	Text string // raw text including the leading marker
}

// LeadingComments returns the contiguous run of standalone comment lines
// immediately above n, in source order. The run stops at a blank line, at
// any non-comment line, and at a comment trailing another statement on its
// own line.
func LeadingComments(t *Tree, n *sitter.Node) []Comment {
	var reversed []Comment
	cur := n
	for {
		prev := cur.PrevNamedSibling()
		if prev == nil || prev.Type() != "comment" {
			break
		}
		if int(prev.EndPoint().Row) != int(cur.StartPoint().Row)-1 {
			break
		}
		if before := prev.PrevSibling(); before != nil && before.EndPoint().Row == prev.StartPoint().Row {
			// Trailing comment on the previous statement's line.
			break
		}
		reversed = append(reversed, Comment{Line: Line(prev), Text: t.Text(prev)})
		cur = prev
	}
	comments := make([]Comment, len(reversed))
	for i, c := range reversed {
		comments[len(reversed)-1-i] = c
	}
	return comments
}
