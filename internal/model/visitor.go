package model

import "errors"

// ErrRootRemoval is returned by the filters when the predicate rejects the
// tree root: the root has no containing member list to be removed from.
var ErrRootRemoval = errors.New("filter predicate rejected the tree root")

// Walk traverses the tree rooted at obj in pre-order. Returning false from
// visit prunes the subtree below the current object.
func Walk(obj ApiObject, visit func(ApiObject) bool) {
	if !visit(obj) {
		return
	}
	for _, member := range Members(obj) {
		Walk(member, visit)
	}
}

// WalkPost traverses the tree rooted at obj in post-order: members first,
// then the object itself.
func WalkPost(obj ApiObject, visit func(ApiObject)) {
	for _, member := range Members(obj) {
		WalkPost(member, visit)
	}
	visit(obj)
}

// FilterPre removes every object rejected by keep from its owning member
// list, deciding on each object before descending into it: a rejected
// object is dropped together with its whole subtree. Rejecting the root
// returns ErrRootRemoval before any mutation. Parent back-references of the
// surviving objects are re-synchronized.
func FilterPre(root ApiObject, keep func(ApiObject) bool) error {
	if !keep(root) {
		return ErrRootRemoval
	}
	filterMembers(root, keep, true)
	SyncHierarchy(root)
	return nil
}

// FilterPost removes every object rejected by keep from its owning member
// list, visiting members before deciding on their container. Rejecting the
// root returns ErrRootRemoval before any mutation; the predicate must be
// deterministic for the early root check to be equivalent to a post-order
// root visit.
func FilterPost(root ApiObject, keep func(ApiObject) bool) error {
	if !keep(root) {
		return ErrRootRemoval
	}
	filterMembers(root, keep, false)
	SyncHierarchy(root)
	return nil
}

func filterMembers(obj ApiObject, keep func(ApiObject) bool, preOrder bool) {
	list := obj.members()
	if list == nil {
		return
	}
	kept := (*list)[:0]
	for _, member := range *list {
		if preOrder {
			if !keep(member) {
				continue
			}
			filterMembers(member, keep, preOrder)
			kept = append(kept, member)
		} else {
			filterMembers(member, keep, preOrder)
			if keep(member) {
				kept = append(kept, member)
			}
		}
	}
	*list = kept
}
