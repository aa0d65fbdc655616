package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// Action is something a caller attempts within a project.
type Action string

const (
	// ActionView reads a project's category tree.
	ActionView Action = "view"
	// ActionRead reads issue listings, lookups and project ids. Unlike
	// ActionView it always needs a signed-in caller.
	ActionRead Action = "read"
	// ActionContribute attaches data to issues: revisions, attachments.
	ActionContribute Action = "contribute"
	// ActionManageCategories adds, renames, moves or deletes categories.
	ActionManageCategories Action = "manage_categories"
)

var (
	// ErrUnauthenticated is returned when an action needs a signed-in caller.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccessDenied is returned when the caller lacks the needed role.
	ErrAccessDenied = errors.New("access denied")
)

// AccessStore is the slice of the store the authorizer reads.
type AccessStore interface {
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	GetMembership(ctx context.Context, projectID int64, username string) (*model.Membership, error)
}

// Authorizer decides whether an identity may perform an action in a project.
// It returns nil when allowed, ErrUnauthenticated or ErrAccessDenied when
// not, and the store's error (sql.ErrNoRows for an unknown project) otherwise.
type Authorizer interface {
	Authorize(ctx context.Context, who Identity, projectID int64, action Action) error
}

// StoreAuthorizer implements Authorizer from project access types and
// memberships.
//
//   - Super users may do anything.
//   - ActionView: anyone on a public project; members on a private one.
//   - ActionRead: signed-in callers on a public project; members on a
//     private one.
//   - ActionContribute: signed-in callers on a public project; members on a
//     private one.
//   - ActionManageCategories: project admins.
type StoreAuthorizer struct {
	store AccessStore
}

// NewStoreAuthorizer returns an Authorizer backed by s.
func NewStoreAuthorizer(s AccessStore) *StoreAuthorizer {
	return &StoreAuthorizer{store: s}
}

var _ Authorizer = (*StoreAuthorizer)(nil)

func (a *StoreAuthorizer) Authorize(ctx context.Context, who Identity, projectID int64, action Action) error {
	if action == ActionRead && who.IsAnonymous() {
		return ErrUnauthenticated
	}
	project, err := a.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if who.SuperUser {
		return nil
	}

	switch action {
	case ActionView, ActionRead, ActionContribute, ActionManageCategories:
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	if action == ActionView && !project.IsPrivate() {
		return nil
	}
	if who.IsAnonymous() {
		return ErrUnauthenticated
	}
	if (action == ActionRead || action == ActionContribute) && !project.IsPrivate() {
		return nil
	}

	m, err := a.store.GetMembership(ctx, projectID, who.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s is not a member of project %d", ErrAccessDenied, who.Username, projectID)
	}
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}

	if action == ActionManageCategories && m.Role != model.RoleAdmin {
		return fmt.Errorf("%w: %s is not an administrator of project %d", ErrAccessDenied, who.Username, projectID)
	}
	return nil
}
