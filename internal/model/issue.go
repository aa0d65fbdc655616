package model

import "time"

// Issue is a tracked defect or task, joined with the display names of the
// lookups it references.
type Issue struct {
	ID               int64     `json:"id"`
	ProjectID        int64     `json:"project_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StatusName       string    `json:"status_name"`
	ResolutionName   string    `json:"resolution_name"`
	CategoryName     string    `json:"category_name"`
	PriorityName     string    `json:"priority_name"`
	MilestoneName    string    `json:"milestone_name"`
	IssueTypeName    string    `json:"issue_type_name"`
	CreatorUserName  string    `json:"creator_username"`
	OwnerUserName    string    `json:"owner_username"`
	AssignedUserID   *int64    `json:"assigned_user_id,omitempty"`
	AssignedUserName string    `json:"assigned_username,omitempty"`
	Closed           bool      `json:"closed"`
	Disabled         bool      `json:"disabled"`
	DateCreated      time.Time `json:"date_created"`
	LastUpdate       time.Time `json:"last_update"`
}

// IssueRowColumns names the fields of Issue.Row in order.
var IssueRowColumns = [13]string{
	"id",
	"date_created",
	"last_update",
	"status_name",
	"description",
	"creator_username",
	"resolution_name",
	"category_name",
	"title",
	"priority_name",
	"milestone_name",
	"owner_username",
	"issue_type_name",
}

// Row returns the issue as the fixed-order listing record described by
// IssueRowColumns.
func (i *Issue) Row() [13]any {
	return [13]any{
		i.ID,
		i.DateCreated,
		i.LastUpdate,
		i.StatusName,
		i.Description,
		i.CreatorUserName,
		i.ResolutionName,
		i.CategoryName,
		i.Title,
		i.PriorityName,
		i.MilestoneName,
		i.OwnerUserName,
		i.IssueTypeName,
	}
}
