package resolver

import (
	"strings"

	"pydex/internal/model"
)

const exportListName = "__all__"

// FoldExports combines a module's partial export-list assignments
// (`__all__ = [...]`, `__all__ += [...]`) into one effective list. A plain
// re-assignment replaces everything accumulated before it; an augmented
// assignment appends. Names are de-duplicated preserving first-seen order,
// and the surviving Variable keeps the last assignment's location. Modules
// whose export values are not literal string lists are left untouched.
func FoldExports(module *model.Module) {
	var assignments []*model.Variable
	for _, member := range module.Members {
		if v, ok := member.(*model.Variable); ok && v.Name == exportListName {
			assignments = append(assignments, v)
		}
	}
	if len(assignments) < 2 {
		return
	}

	var names []string
	for _, v := range assignments {
		parsed, ok := parseStringList(v.Value)
		if !ok {
			return
		}
		if len(v.Modifiers) == 0 {
			names = names[:0]
		}
		names = append(names, parsed...)
	}
	names = dedupe(names)

	last := assignments[len(assignments)-1]
	last.Value = renderStringList(names)
	last.Modifiers = nil

	kept := module.Members[:0]
	for _, member := range module.Members {
		if v, ok := member.(*model.Variable); ok && v.Name == exportListName && v != last {
			continue
		}
		kept = append(kept, member)
	}
	module.Members = kept
	model.SyncHierarchy(module)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// parseStringList reads a literal list or tuple of string literals. Any
// other shape reports !ok.
func parseStringList(src string) ([]string, bool) {
	s := strings.TrimSpace(src)
	if len(s) < 2 {
		return nil, false
	}
	switch {
	case s[0] == '[' && s[len(s)-1] == ']':
	case s[0] == '(' && s[len(s)-1] == ')':
	default:
		return nil, false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []string{}, true
	}
	var names []string
	for _, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue // trailing comma
		}
		if len(item) < 2 {
			return nil, false
		}
		quote := item[0]
		if (quote != '\'' && quote != '"') || item[len(item)-1] != quote {
			return nil, false
		}
		names = append(names, item[1:len(item)-1])
	}
	return names, true
}

func renderStringList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
