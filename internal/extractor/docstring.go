package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydex/internal/model"
	"pydex/internal/syntax"
)

// statementMarker distinguishes a comment run that documents the following
// simple statement from one that documents the enclosing block.
const statementMarker = "#:"

// blockDocstring finds the docstring of a block node (module root, class
// body or function body). Priority: a bare string-literal first statement;
// otherwise, when enabled, a plain comment run above the first statement.
func (p *parser) blockDocstring(body *sitter.Node) *model.Docstring {
	firstStmt := firstStatement(body)
	if firstStmt != nil && firstStmt.Type() == "expression_statement" {
		if str := firstStmt.NamedChild(0); str != nil && str.Type() == "string" {
			if content := prepareStringLiteral(p.text(str)); content != "" {
				return &model.Docstring{Location: p.lineLocation(str), Content: content}
			}
			return nil
		}
	}
	if !p.opts.TreatCommentBlocksAsDocstrings {
		return nil
	}
	var run []syntax.Comment
	if firstStmt != nil {
		run = syntax.LeadingComments(p.tree, firstStmt)
	} else {
		run = allComments(p, body)
	}
	if len(run) == 0 || isStatementRun(run) {
		return nil
	}
	if content := commentRunText(run); content != "" {
		return &model.Docstring{
			Location: model.Location{Filename: p.tree.Filename, Lineno: run[0].Line},
			Content:  content,
		}
	}
	return nil
}

// statementDocstring finds the docstring of a simple assignment statement:
// a distinguished-marker comment run on the lines directly above, or a bare
// string-literal statement immediately following it. The marker form works
// independently of the comment-block option.
func (p *parser) statementDocstring(stmt *sitter.Node) *model.Docstring {
	run := syntax.LeadingComments(p.tree, stmt)
	if len(run) > 0 && isStatementRun(run) {
		if content := commentRunText(run); content != "" {
			return &model.Docstring{
				Location: model.Location{Filename: p.tree.Filename, Lineno: run[0].Line},
				Content:  content,
			}
		}
	}
	next := stmt.NextNamedSibling()
	if next != nil && next.Type() == "expression_statement" {
		if str := next.NamedChild(0); str != nil && str.Type() == "string" {
			if content := prepareStringLiteral(p.text(str)); content != "" {
				return &model.Docstring{Location: p.lineLocation(str), Content: content}
			}
		}
	}
	return nil
}

func firstStatement(body *sitter.Node) *sitter.Node {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}

func allComments(p *parser, body *sitter.Node) []syntax.Comment {
	var run []syntax.Comment
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "comment" {
			break
		}
		run = append(run, syntax.Comment{Line: syntax.Line(child), Text: p.text(child)})
	}
	return run
}

// isStatementRun reports whether the run belongs to the following simple
// statement rather than the enclosing block. The nearest line decides.
func isStatementRun(run []syntax.Comment) bool {
	return strings.HasPrefix(strings.TrimSpace(run[len(run)-1].Text), statementMarker)
}

// commentRunText joins a comment run into docstring content: markers are
// stripped and the relative indentation after the marker is preserved.
func commentRunText(run []syntax.Comment) string {
	lines := make([]string, len(run))
	for i, c := range run {
		line := strings.TrimSpace(c.Text)
		if strings.HasPrefix(line, statementMarker) {
			line = line[len(statementMarker):]
		} else {
			line = strings.TrimPrefix(line, "#")
		}
		lines[i] = strings.TrimPrefix(line, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// prepareStringLiteral converts a string-literal source fragment into
// docstring content: prefixes and quotes removed, first line stripped, the
// remaining lines' common leading whitespace removed.
func prepareStringLiteral(raw string) string {
	s := strings.TrimSpace(raw)
	for len(s) > 0 && strings.ContainsRune("rRbBuUfF", rune(s[0])) {
		s = s[1:]
	}
	for _, quote := range []string{`"""`, "'''"} {
		if len(s) >= 2*len(quote) && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
			return dedentDocstring(s[len(quote) : len(s)-len(quote)])
		}
	}
	for _, quote := range []string{`"`, "'"} {
		if len(s) >= 2 && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
			return dedentDocstring(s[1 : len(s)-1])
		}
	}
	return ""
}

// dedentDocstring strips the first line and removes the remaining lines'
// common leading whitespace, then trims the result.
func dedentDocstring(s string) string {
	lines := strings.Split(s, "\n")
	lines[0] = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		copy(lines[1:], dedent(lines[1:]))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func dedent(lines []string) []string {
	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= margin {
			out[i] = line[margin:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}
