package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const projectColumns = `id, code, name, access_type, disabled`

const categoryColumns = `id, project_id, parent_category_id, name, child_count`

// execOne runs a statement that must touch exactly one row, returning
// sql.ErrNoRows when it touched none.
func execOne(ctx context.Context, db executor, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Projects and access ---

func queryGetProject(ctx context.Context, db executor, id int64) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func queryGetProjectByCode(ctx context.Context, db executor, code string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE lower(code) = lower($1)`, code)
	return scanProject(row)
}

func queryListProjects(ctx context.Context, db executor) ([]*model.Project, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func queryGetMembership(ctx context.Context, db executor, projectID int64, username string) (*model.Membership, error) {
	var m model.Membership
	err := db.QueryRowContext(ctx, `
		SELECT project_id, username, role
		FROM project_members
		WHERE project_id = $1 AND username = $2`,
		projectID, username,
	).Scan(&m.ProjectID, &m.Username, &m.Role)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func queryGetUserByUsername(ctx context.Context, db executor, username string) (*model.User, error) {
	var u model.User
	err := db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, super_user
		FROM users
		WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.SuperUser)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func queryLockProject(ctx context.Context, db executor, projectID int64) error {
	var id int64
	return db.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&id)
}

// --- Categories ---

func queryGetCategory(ctx context.Context, db executor, id int64) (*model.Category, error) {
	row := db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func queryListCategories(ctx context.Context, db executor, projectID int64) ([]*model.Category, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE project_id = $1
		ORDER BY name, id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func queryCreateCategory(ctx context.Context, db executor, c *model.Category) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO categories (project_id, parent_category_id, name, child_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.ProjectID, c.ParentCategoryID, c.Name, c.ChildCount,
	).Scan(&c.ID)
}

func queryRenameCategory(ctx context.Context, db executor, id int64, name string) error {
	return execOne(ctx, db, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
}

func querySetCategoryParent(ctx context.Context, db executor, id, parentID int64) error {
	return execOne(ctx, db, `UPDATE categories SET parent_category_id = $2 WHERE id = $1`, id, parentID)
}

func querySetCategoryChildCount(ctx context.Context, db executor, id int64, count int) error {
	return execOne(ctx, db, `UPDATE categories SET child_count = $2 WHERE id = $1`, id, count)
}

func queryDeleteCategory(ctx context.Context, db executor, id int64) error {
	return execOne(ctx, db, `DELETE FROM categories WHERE id = $1`, id)
}

// --- Attachments and revisions ---

func queryCreateAttachment(ctx context.Context, db executor, a *model.Attachment) error {
	var content []byte
	if a.ObjectKey == "" {
		content = a.Content
	}
	return db.QueryRowContext(ctx, `
		INSERT INTO attachments (
			issue_id, file_name, content_type, size, description,
			creator_username, checksum, object_key, content
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		a.IssueID,
		a.FileName,
		a.ContentType,
		a.Size,
		a.Description,
		a.CreatorUserName,
		a.Checksum,
		nullString(a.ObjectKey),
		content,
	).Scan(&a.ID, &a.CreatedAt)
}

func queryCreateRevision(ctx context.Context, db executor, r *model.Revision) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO revisions (
			issue_id, revision, repository, author, revision_date,
			message, changeset, branch
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		r.IssueID,
		r.Revision,
		r.Repository,
		r.Author,
		r.RevisionDate,
		r.Message,
		r.Changeset,
		r.Branch,
	).Scan(&r.ID, &r.CreatedAt)
}

// --- Lookups and wiki ---

func queryListLookups(ctx context.Context, db executor, projectID int64, kind model.LookupKind) ([]*model.Lookup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, project_id, kind, name, sort_order
		FROM lookups
		WHERE project_id = $1 AND kind = $2
		ORDER BY sort_order, id`,
		projectID, string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLookups(rows)
}

func queryGetWikiContent(ctx context.Context, db executor, id int64, version int) (*model.WikiContent, error) {
	var w model.WikiContent
	err := db.QueryRowContext(ctx, `
		SELECT id, project_id, slug, title, version, source
		FROM wiki_contents
		WHERE id = $1 AND version = $2`,
		id, version,
	).Scan(&w.ID, &w.ProjectID, &w.Slug, &w.Title, &w.Version, &w.Source)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// --- Events ---

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, entity_id, actor, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, e.EntityID, e.Actor, []byte(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, entityID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, entity_id, actor, payload, created_at
		FROM events
		WHERE entity_id = $1
		ORDER BY created_at ASC`,
		entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}
