// Package client provides a transport-agnostic interface for the tracker
// service, with HTTP/JSON and gRPC implementations.
package client

import (
	"context"

	"github.com/alfredjeanlab/tracker/internal/api"
	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// TrackerClient is the interface that all trk commands use to talk to the
// tracker server. It is implemented by HTTPClient (default) and GRPCClient.
type TrackerClient interface {
	// Issues
	ValidIssue(ctx context.Context, issueID int64) (bool, error)
	CreateRevision(ctx context.Context, req *api.CreateRevisionRequest) (*model.Revision, error)
	CreateAttachment(ctx context.Context, req *api.CreateAttachmentRequest) (*model.Attachment, error)

	// Projects
	GetProjectID(ctx context.Context, code string) (int64, error)
	GetProjectIssues(ctx context.Context, projectID int64, filter string) (*api.GetProjectIssuesResponse, error)

	// Categories
	GetCategories(ctx context.Context, projectID int64) ([]*model.TreeNode, error)
	AddCategory(ctx context.Context, projectID int64, name string, parentID int64) (*model.Category, error)
	RenameCategory(ctx context.Context, categoryID int64, name string) (*model.Category, error)
	MoveCategory(ctx context.Context, categoryID, oldParentID, newParentID int64) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) ([]int64, error)

	// Lookups
	GetLookup(ctx context.Context, projectID int64, kind model.LookupKind) ([]string, error)
	GetLookups(ctx context.Context, projectID int64) (*api.GetLookupsResponse, error)

	// Wiki
	GetWikiSource(ctx context.Context, id int64, slug string, version int) (string, error)
	GetWikiPreview(ctx context.Context, req *api.GetWikiPreviewRequest) (string, error)

	// Health
	Health(ctx context.Context) (*api.HealthResponse, error)

	// Lifecycle
	Close() error
}

// Credentials identify the caller. A token takes precedence over a
// username and password; the zero value calls anonymously.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// Header returns the Authorization header value for the credentials, or ""
// for anonymous calls.
func (c Credentials) Header() string {
	switch {
	case c.Token != "":
		return "Bearer " + c.Token
	case c.Username != "":
		return auth.BasicHeader(c.Username, c.Password)
	}
	return ""
}
