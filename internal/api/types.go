// Package api holds the request and response messages of the tracker
// service. The same types are the HTTP JSON bodies and the gRPC messages.
package api

import "github.com/alfredjeanlab/tracker/internal/model"

type HealthRequest struct{}

type HealthResponse struct {
	Status              string `json:"status"`
	FilterTokensDropped int64  `json:"filter_tokens_dropped"`
}

type ValidIssueRequest struct {
	IssueID int64 `json:"issue_id"`
}

type ValidIssueResponse struct {
	Valid bool `json:"valid"`
}

type CreateRevisionRequest struct {
	IssueID      int64  `json:"issue_id"`
	Revision     int    `json:"revision"`
	Repository   string `json:"repository"`
	Author       string `json:"author"`
	RevisionDate string `json:"revision_date,omitempty"`
	Message      string `json:"message,omitempty"`
	Changeset    string `json:"changeset,omitempty"`
	Branch       string `json:"branch,omitempty"`
}

type CreateRevisionResponse struct {
	Revision *model.Revision `json:"revision"`
}

// CreateAttachmentRequest carries the attachment body inline. Size is
// optional; when set it must equal len(Content).
type CreateAttachmentRequest struct {
	IssueID     int64  `json:"issue_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Size        *int64 `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
	Content     []byte `json:"content"`
}

type CreateAttachmentResponse struct {
	Attachment *model.Attachment `json:"attachment"`
}

type GetProjectIDRequest struct {
	Code string `json:"code"`
}

type GetProjectIDResponse struct {
	ProjectID int64 `json:"project_id"`
}

type GetProjectIssuesRequest struct {
	ProjectID int64  `json:"project_id"`
	Filter    string `json:"filter,omitempty"`
}

// GetProjectIssuesResponse lists issues as fixed-order rows described by
// Columns.
type GetProjectIssuesResponse struct {
	Columns [13]string `json:"columns"`
	Rows    [][13]any  `json:"rows"`
}

type GetCategoriesRequest struct {
	ProjectID int64 `json:"project_id"`
}

type GetCategoriesResponse struct {
	Categories []*model.TreeNode `json:"categories"`
}

type AddCategoryRequest struct {
	ProjectID        int64  `json:"project_id"`
	Name             string `json:"name"`
	ParentCategoryID int64  `json:"parent_category_id"`
}

type AddCategoryResponse struct {
	Category *model.Category `json:"category"`
}

type RenameCategoryRequest struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

type RenameCategoryResponse struct {
	Category *model.Category `json:"category"`
}

// MoveCategoryRequest requires both parents; OldParentID must match the
// stored parent.
type MoveCategoryRequest struct {
	CategoryID  int64  `json:"category_id"`
	OldParentID *int64 `json:"old_parent_id"`
	NewParentID *int64 `json:"new_parent_id"`
}

type MoveCategoryResponse struct {
	Category *model.Category `json:"category"`
}

type DeleteCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

// DeleteCategoryResponse lists the removed ids, descendants first.
type DeleteCategoryResponse struct {
	Removed []int64 `json:"removed"`
}

type GetLookupRequest struct {
	ProjectID int64            `json:"project_id"`
	Kind      model.LookupKind `json:"kind"`
}

type GetLookupResponse struct {
	Names []string `json:"names"`
}

type GetLookupsRequest struct {
	ProjectID int64 `json:"project_id"`
}

type GetLookupsResponse struct {
	Resolutions []string `json:"resolutions"`
	Milestones  []string `json:"milestones"`
	IssueTypes  []string `json:"issue_types"`
	Priorities  []string `json:"priorities"`
	Statuses    []string `json:"statuses"`
}

type GetWikiSourceRequest struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug,omitempty"`
	Version int    `json:"version"`
}

type GetWikiSourceResponse struct {
	Source string `json:"source"`
}

type GetWikiPreviewRequest struct {
	ProjectID int64  `json:"project_id"`
	ID        int64  `json:"id"`
	Slug      string `json:"slug,omitempty"`
	Source    string `json:"source"`
}

type GetWikiPreviewResponse struct {
	HTML string `json:"html"`
}
