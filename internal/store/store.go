package store

import (
	"context"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// Store defines the persistence interface for the tracker. Lookups of a
// single missing record return sql.ErrNoRows.
type Store interface {
	// Projects and access
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	GetProjectByCode(ctx context.Context, code string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	GetMembership(ctx context.Context, projectID int64, username string) (*model.Membership, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// LockProject serialises category mutations within a project for the
	// rest of the enclosing transaction.
	LockProject(ctx context.Context, projectID int64) error

	// Categories
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, projectID int64) ([]*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	RenameCategory(ctx context.Context, id int64, name string) error
	SetCategoryParent(ctx context.Context, id, parentID int64) error
	SetCategoryChildCount(ctx context.Context, id int64, count int) error
	DeleteCategory(ctx context.Context, id int64) error

	// Issues
	GetIssue(ctx context.Context, id int64) (*model.Issue, error)
	ListIssues(ctx context.Context, projectID int64) ([]*model.Issue, error)
	QueryIssues(ctx context.Context, projectID int64, clauses []model.QueryClause) ([]*model.Issue, error)

	// Issue attachments and revisions
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	CreateRevision(ctx context.Context, r *model.Revision) error

	// Lookups
	ListLookups(ctx context.Context, projectID int64, kind model.LookupKind) ([]*model.Lookup, error)

	// Wiki
	GetWikiContent(ctx context.Context, id int64, version int) (*model.WikiContent, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
