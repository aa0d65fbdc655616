package category

import (
	"fmt"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// Subtree returns the IDs of rootID and all of its descendants in
// depth-first post-order: every category appears after all of its children,
// so deleting in the returned order never orphans a row. The walk is bounded
// by DefaultMaxDepth.
func Subtree(categories []*model.Category, rootID int64) ([]int64, error) {
	return SubtreeDepth(categories, rootID, DefaultMaxDepth)
}

// SubtreeDepth is Subtree with an explicit depth bound.
func SubtreeDepth(categories []*model.Category, rootID int64, maxDepth int) ([]int64, error) {
	children := byParent(categories)
	seen := make(map[int64]bool)
	var order []int64

	var visit func(id int64, depth int) error
	visit = func(id int64, depth int) error {
		if depth > maxDepth {
			return fmt.Errorf("%w: category %d at depth %d", ErrTooDeep, id, depth)
		}
		if seen[id] {
			return fmt.Errorf("%w: category %d reached twice", ErrTooDeep, id)
		}
		seen[id] = true
		for _, c := range children[id] {
			if err := visit(c.ID, depth+1); err != nil {
				return err
			}
		}
		order = append(order, id)
		return nil
	}

	if err := visit(rootID, 1); err != nil {
		return nil, err
	}
	return order, nil
}

// WouldCycle reports whether making newParentID the parent of id would put
// id among its own ancestors. A self-parent is a cycle; zero (root) never is.
func WouldCycle(categories []*model.Category, id, newParentID int64) bool {
	if newParentID == 0 {
		return false
	}
	if newParentID == id {
		return true
	}

	parent := make(map[int64]int64, len(categories))
	for _, c := range categories {
		if c != nil {
			parent[c.ID] = c.ParentCategoryID
		}
	}

	visited := make(map[int64]bool)
	for cur := newParentID; cur != 0; {
		if cur == id || visited[cur] {
			return true
		}
		visited[cur] = true
		p, ok := parent[cur]
		if !ok {
			return false
		}
		cur = p
	}
	return false
}

// ChildCounts returns the number of immediate children of every category
// that has at least one.
func ChildCounts(categories []*model.Category) map[int64]int {
	counts := make(map[int64]int)
	for _, c := range categories {
		if c != nil && c.ParentCategoryID != 0 {
			counts[c.ParentCategoryID]++
		}
	}
	return counts
}

// Find returns the category with the given ID, or nil.
func Find(categories []*model.Category, id int64) *model.Category {
	for _, c := range categories {
		if c != nil && c.ID == id {
			return c
		}
	}
	return nil
}
