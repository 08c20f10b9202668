package model

// SyncHierarchy (re)establishes the parent back-reference of every object
// reachable from root. It must run once after a tree is constructed and
// again after any external bulk mutation of a members list. The root's
// parent is set to nil.
func SyncHierarchy(root ApiObject) {
	syncHierarchy(root, nil)
}

func syncHierarchy(obj ApiObject, parent ApiObject) {
	obj.Base().parent = parent
	for _, member := range Members(obj) {
		syncHierarchy(member, obj)
	}
}

// Path returns the root-to-self chain of obj, derived by repeated parent
// lookups. The last element is obj itself.
func Path(obj ApiObject) []ApiObject {
	var reversed []ApiObject
	for cur := obj; cur != nil; cur = cur.Base().parent {
		reversed = append(reversed, cur)
	}
	path := make([]ApiObject, len(reversed))
	for i, o := range reversed {
		path[len(reversed)-1-i] = o
	}
	return path
}

// Member looks up a direct member of obj by name. It returns nil when obj
// has no members or no member carries the name.
func Member(obj ApiObject, name string) ApiObject {
	for _, m := range Members(obj) {
		if m.Base().Name == name {
			return m
		}
	}
	return nil
}
