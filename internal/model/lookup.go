package model

// LookupKind identifies one of the per-project pick lists.
type LookupKind string

const (
	LookupResolution LookupKind = "resolution"
	LookupMilestone  LookupKind = "milestone"
	LookupIssueType  LookupKind = "issue_type"
	LookupPriority   LookupKind = "priority"
	LookupStatus     LookupKind = "status"
)

// LookupKinds lists every kind in display order.
var LookupKinds = []LookupKind{
	LookupResolution,
	LookupMilestone,
	LookupIssueType,
	LookupPriority,
	LookupStatus,
}

// IsValid checks whether the kind is a known value.
func (k LookupKind) IsValid() bool {
	switch k {
	case LookupResolution, LookupMilestone, LookupIssueType, LookupPriority, LookupStatus:
		return true
	}
	return false
}

// Lookup is a named entry of a project pick list.
type Lookup struct {
	ID        int64      `json:"id"`
	ProjectID int64      `json:"project_id"`
	Kind      LookupKind `json:"kind"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
}

// WikiContent is one stored version of a wiki page.
type WikiContent struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Version   int    `json:"version"`
	Source    string `json:"source"`
}
