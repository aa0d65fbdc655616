package model

// Category is a node of a project's category hierarchy. A ParentCategoryID
// of zero marks a root. ChildCount is a cached count of immediate children
// and may be stale; readers that need the real children derive them from
// the parent pointers.
type Category struct {
	ID               int64  `json:"id"`
	ProjectID        int64  `json:"project_id"`
	ParentCategoryID int64  `json:"parent_category_id"`
	Name             string `json:"name"`
	ChildCount       int    `json:"child_count"`
}

// IsRoot reports whether the category sits at the top of its project's tree.
func (c *Category) IsRoot() bool {
	return c.ParentCategoryID == 0
}

// TreeNode is the display form of a category, nested with its children.
// ID is encoded as a JSON string; Children is never nil.
type TreeNode struct {
	ID       int64       `json:"id,string"`
	Rel      string      `json:"rel"`
	Title    string      `json:"title"`
	Icon     string      `json:"icon"`
	Children []*TreeNode `json:"children"`
}
