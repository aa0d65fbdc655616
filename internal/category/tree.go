// Package category builds display trees from flat, parent-pointer category
// lists and answers the structural questions category mutations need.
//
// A category list is a forest: a ParentCategoryID of zero marks a root and
// every other value names the parent's ID. Functions here never consult the
// cached Category.ChildCount; children are always re-derived from parent
// pointers.
package category

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alfredjeanlab/tracker/internal/model"
)

const (
	// RelPrefix is prepended to a category ID to form TreeNode.Rel.
	RelPrefix = "cat"

	// IconPath is the icon attached to every tree node.
	IconPath = "../../images/plugin.gif"

	// DefaultMaxDepth bounds how deep a tree may nest.
	DefaultMaxDepth = 64
)

var (
	// ErrTooDeep is returned when a walk exceeds the depth bound. On a list
	// with unique IDs it means the hierarchy is implausibly deep; with
	// repeated IDs it means the parent pointers loop.
	ErrTooDeep = errors.New("category hierarchy exceeds maximum depth")

	// ErrCycle is returned when a move would make a category its own ancestor.
	ErrCycle = errors.New("category move would create a cycle")
)

// Builder converts category lists to display trees. The zero value uses
// DefaultMaxDepth and IconPath.
type Builder struct {
	MaxDepth int
	Icon     string
}

// BuildTree builds the display forest for a single project's categories
// using the default Builder.
func BuildTree(categories []*model.Category) ([]*model.TreeNode, error) {
	return Builder{}.Build(categories)
}

// Build returns one TreeNode per root, in input order, each carrying its
// descendants. Children appear in input order. Categories whose parent is
// not in the list are left out.
func (b Builder) Build(categories []*model.Category) ([]*model.TreeNode, error) {
	children := byParent(categories)
	roots := children[0]

	nodes := make([]*model.TreeNode, 0, len(roots))
	for _, root := range roots {
		n, err := b.node(root, children, 1)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (b Builder) node(c *model.Category, children map[int64][]*model.Category, depth int) (*model.TreeNode, error) {
	if depth > b.Limit() {
		return nil, fmt.Errorf("%w: category %d at depth %d", ErrTooDeep, c.ID, depth)
	}

	n := &model.TreeNode{
		ID:       c.ID,
		Rel:      Rel(c.ID),
		Title:    c.Name,
		Icon:     b.icon(),
		Children: make([]*model.TreeNode, 0, len(children[c.ID])),
	}
	for _, child := range children[c.ID] {
		cn, err := b.node(child, children, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

// Limit returns the depth bound in effect.
func (b Builder) Limit() int {
	if b.MaxDepth > 0 {
		return b.MaxDepth
	}
	return DefaultMaxDepth
}

func (b Builder) icon() string {
	if b.Icon != "" {
		return b.Icon
	}
	return IconPath
}

// Rel returns the relation tag for a category ID.
func Rel(id int64) string {
	return RelPrefix + strconv.FormatInt(id, 10)
}

// byParent groups categories by parent ID, preserving input order.
func byParent(categories []*model.Category) map[int64][]*model.Category {
	children := make(map[int64][]*model.Category)
	for _, c := range categories {
		if c == nil {
			continue
		}
		children[c.ParentCategoryID] = append(children[c.ParentCategoryID], c)
	}
	return children
}
